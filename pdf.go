package seamcarve

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nickjwhite/gofpdf"
)

const (
	// pixels are placed at 96 per inch, and there are 72 pts per inch
	ptsPerPx   = 72.0 / 96.0
	reportFont = "Helvetica"
)

// pxToPt converts a pixel value into a pt value
func pxToPt(i int) float64 {
	return float64(i) * ptsPerPx
}

// Report is a PDF summarising a carving run, with a page of text
// followed by a page for each image added
type Report struct {
	fpdf   *gofpdf.Fpdf
	images int
}

// Setup creates a new PDF with appropriate settings and fonts
func (p *Report) Setup() error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	p.fpdf.SetFont(reportFont, "", 12)
	p.fpdf.SetAutoPageBreak(false, 0)
	return p.fpdf.Error()
}

// AddSummary adds an A4 page with a title and one line of text for
// each entry of lines
func (p *Report) AddSummary(title string, lines []string) error {
	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: 595.28, Ht: 841.89})
	p.fpdf.SetFont(reportFont, "B", 16)
	p.fpdf.CellFormat(0, 24, title, "", 1, "L", false, 0, "")
	p.fpdf.SetFont(reportFont, "", 12)
	for _, l := range lines {
		p.fpdf.CellFormat(0, 16, l, "", 1, "L", false, 0, "")
	}
	return p.fpdf.Error()
}

// AddImage adds a page the size of img containing it, with a caption
// above it
func (p *Report) AddImage(caption string, img image.Image) error {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	if err != nil {
		return fmt.Errorf("Could not encode image %s: %w", caption, err)
	}

	p.images++
	name := fmt.Sprintf("image%d", p.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.fpdf.RegisterImageOptionsReader(name, opts, &buf)

	b := img.Bounds()
	const captionHeight = 24
	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pxToPt(b.Dx()), Ht: pxToPt(b.Dy()) + captionHeight})
	p.fpdf.SetXY(0, 0)
	p.fpdf.CellFormat(pxToPt(b.Dx()), captionHeight, caption, "", 0, "C", false, 0, "")
	p.fpdf.ImageOptions(name, 0, captionHeight, pxToPt(b.Dx()), pxToPt(b.Dy()), false, opts, 0, "")
	return p.fpdf.Error()
}

// Write outputs the PDF to w
func (p *Report) Write(w io.Writer) error {
	return p.fpdf.Output(w)
}

// Save saves the PDF to the file at path
func (p *Report) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
