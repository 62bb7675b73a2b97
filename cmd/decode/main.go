// This tools reads a PDF file and decode all the streams.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/pdf/reader"
)

func check(err error) {
	if err != nil {
		fmt.Println("fatal error", err)
		os.Exit(1)
	}
}

func decodeStream(c *model.Stream) {
	b, err := c.Decode()
	check(err)

	*c = model.Stream{Content: b}
}

func decodeResources(res *model.ResourcesDict) {
	if res == nil {
		return
	}
	for _, xo := range res.XObject {
		switch xo := xo.(type) {
		case *model.XObjectForm:
			decodeStream(&xo.Stream)
			decodeResources(xo.Resources)
		case *model.XObjectImage:
			decodeStream(&xo.Stream)
		}
	}
}

func main() {
	flag.Parse()
	input := flag.Arg(0)

	fmt.Println(input)
	doc, _, err := reader.ParsePDFFile(input, reader.Options{})
	check(err)

	for i, p := range doc.Catalog.Pages.Flatten() {
		for j := range p.Contents {
			decodeStream(&p.Contents[j].Stream)
		}
		decodeResources(p.Resources)
		fmt.Printf("page %d: decoded %d content stream(s)\n", i+1, len(p.Contents))
	}

	for _, w := range doc.Warnings {
		fmt.Println("warning:", w)
	}
	fmt.Println("Done")
}
