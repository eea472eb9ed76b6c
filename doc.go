// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The seamcarve package shrinks images by removing "seams", paths of
pixels which cross the image from one side to the other, chosen so that
the pixels removed carry as little information as possible. Text, lines
and other details are kept while empty space is taken away, so a page
can be made smaller without squashing what is on it.

Installation

Presuming you have the go tools installed, the seamcarve command and
its helpers can be installed with:
  go install rescribe.xyz/seamcarve/cmd/...

All of the tools give information on what they do and how they work
with the '-h' flag.

Using seamcarve

The seamcarve tool takes an image, removes a number of row seams and
then a number of column seams, and saves the result:
  seamcarve -r 50 -c 80 -o smaller.png page.jpg

If no destination is given the result is saved beside the source with
"_carved.png" in place of its extension. Either file can be an S3
location, like s3://bucket/book/page.jpg, in which case it is
downloaded or uploaded as needed, using the credentials in
~/.aws/credentials.

Defaults for the number of seams, the number of goroutines used, the
AWS region and the temporary directory can be set in a TOML file, by
default ~/.config/seamcarve/config.toml:
  rows = 50
  cols = 80
  region = "eu-west-2"

A graph of the energy of each seam removed can be saved with --graph,
and a PDF comparing the original and carved images with --pdf.

How carving works

Each iteration first builds an energy map of the current image. The
energy of a pixel is the entropy of the 9x9 window of pixels around it
added to the size of its gradient. Pixels within 4 of an edge have no
full window, so they are given a very high energy and are never
removed.

A seam is then found with a greedy walk. A walk is started from every
row (for a row seam) or column (for a column seam) outside the margin,
and at each step it moves to whichever of the three pixels ahead has
the lowest energy. The walk with the lowest total is removed, and the
image becomes one row or column smaller. All row seams are removed
before any column seams.

The energy map on its own can be inspected with the energymap tool:
  energymap page.jpg energy.png
*/
package seamcarve
