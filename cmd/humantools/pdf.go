package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/typeset"
)

var combineCmd = &cobra.Command{
	Use:   "combine [pdfs...]",
	Short: "Merge PDFs, optionally keeping and reordering selected pages",
	Long: `Combine merges the PDFs in argument order. --order picks pages of the
merged document by 1-based number; pages left out are dropped and a page may
appear more than once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		arr, err := orderFlag(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		out, err := kit.Combine(inputs, arr, name)
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var splitCmd = &cobra.Command{
	Use:   "split [pdf]",
	Short: "Split a PDF into a zip of single-page PDFs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		out, err := kit.Split(inputs[0])
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var signCmd = &cobra.Command{
	Use:   "sign [pdfs...]",
	Short: "Burn drawn signatures or a signature image into pages",
	Long: `Sign merges the PDFs and applies the marks listed in a YAML file:

  - page: 1
    strokes:
      - path: "M 72 700 C 90 680, 120 720, 150 700"
        width: 2
        color: "#1a237e"
  - page: 2
    image: {x: 72, y: 72, scale: 0.5}

Stroke paths are SVG path data in points from the page's top-left corner.
Image marks place --signature at points from the bottom-left corner.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		marksPath, _ := cmd.Flags().GetString("marks")
		var marks []pdfops.Mark
		if err := readYAML(marksPath, &marks); err != nil {
			return err
		}
		if len(marks) == 0 {
			return fmt.Errorf("%s lists no marks", marksPath)
		}
		var sig []byte
		if p, _ := cmd.Flags().GetString("signature"); p != "" {
			if sig, err = os.ReadFile(p); err != nil {
				return err
			}
		}
		name, _ := cmd.Flags().GetString("name")
		out, err := kit.Sign(inputs, marks, sig, name)
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var imagesToPDFCmd = &cobra.Command{
	Use:   "images-to-pdf [images...]",
	Short: "Make a PDF with one page per image",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		arr, err := orderFlag(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		out, skipped, err := kit.ImagesToPDF(inputs, arr, name)
		if err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: not an image\n", s)
		}
		return save(cmd, out)
	},
}

var docToPDFCmd = &cobra.Command{
	Use:   "doc-to-pdf [document]",
	Short: "Typeset a text, Markdown, HTML, CSV or DOCX document as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		size, _ := cmd.Flags().GetString("page-size")
		fontSize, _ := cmd.Flags().GetFloat64("font-size")
		out, err := kit.DocToPDF(inputs[0], typeset.Options{PageSize: size, FontSize: fontSize})
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [pdf]",
	Short: "Print page count, page sizes and page text as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		info, err := kit.Inspect(inputs[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

func init() {
	for _, c := range []*cobra.Command{combineCmd, signCmd, imagesToPDFCmd} {
		c.Flags().String("name", "", "output file name (default: tool name plus timestamp)")
	}
	for _, c := range []*cobra.Command{combineCmd, imagesToPDFCmd} {
		c.Flags().String("order", "", "comma-separated 1-based page numbers, e.g. 3,1,2")
	}
	for _, c := range []*cobra.Command{combineCmd, splitCmd, signCmd, imagesToPDFCmd, docToPDFCmd} {
		addOutputFlag(c)
	}

	signCmd.Flags().String("marks", "", "YAML file listing the marks")
	signCmd.MarkFlagRequired("marks")
	signCmd.Flags().String("signature", "", "PNG or JPEG used by image marks")

	docToPDFCmd.Flags().String("page-size", "A4", "page size: A3, A4, A5, Letter or Legal")
	docToPDFCmd.Flags().Float64("font-size", 11, "body font size in points")

	rootCmd.AddCommand(combineCmd, splitCmd, signCmd, imagesToPDFCmd, docToPDFCmd, inspectCmd)
}
