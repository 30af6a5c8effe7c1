package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/humantools/internal/pdfops"
	"github.com/dgallion1/humantools/internal/typeset"
)

func (s *Server) registerPDFTools() {
	// ── combine_pdfs ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("combine_pdfs",
		mcp.WithDescription("Merge PDFs in the given order. An optional page order selects and reorders pages of the merged document; pages left out are dropped."),
		mcp.WithString("inputs", mcp.Description("Comma-separated PDF paths"), mcp.Required()),
		mcp.WithString("order", mcp.Description("Comma-separated 1-based page numbers over the merged document, e.g. 3,1,2 (optional)")),
		mcp.WithString("output", mcp.Description("Output file or directory (optional, defaults next to the first input)")),
	), s.handleCombine)

	// ── split_pdf ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("split_pdf",
		mcp.WithDescription("Split a PDF into single-page PDFs, bundled as a zip with entries 0001.pdf, 0002.pdf, ..."),
		mcp.WithString("input", mcp.Description("PDF path"), mcp.Required()),
		mcp.WithString("output", mcp.Description("Output zip file or directory (optional)")),
	), s.handleSplit)

	// ── sign_pdf ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("sign_pdf",
		mcp.WithDescription(`Burn signatures into PDF pages. marks is a JSON array such as [{"page":1,"strokes":[{"path":"M 10 10 L 90 40","width":2,"color":"#000"}]},{"page":2,"image":{"x":72,"y":72,"scale":0.5}}]. Stroke paths are SVG path data in page points from the top-left; image placements are points from the bottom-left.`),
		mcp.WithString("inputs", mcp.Description("Comma-separated PDF paths, merged before signing"), mcp.Required()),
		mcp.WithString("marks", mcp.Description("JSON array of marks"), mcp.Required()),
		mcp.WithString("signature", mcp.Description("PNG or JPEG signature image used by image marks (optional)")),
		mcp.WithString("output", mcp.Description("Output file or directory (optional)")),
	), s.handleSign)

	// ── images_to_pdf ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("images_to_pdf",
		mcp.WithDescription("Make a PDF with one page per image, each page sized to the image. Files that are not images are skipped."),
		mcp.WithString("inputs", mcp.Description("Comma-separated image paths"), mcp.Required()),
		mcp.WithString("order", mcp.Description("Comma-separated 1-based page numbers (optional)")),
		mcp.WithString("output", mcp.Description("Output file or directory (optional)")),
	), s.handleImagesToPDF)

	// ── document_to_pdf ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("document_to_pdf",
		mcp.WithDescription("Typeset a .txt, .md, .html, .csv or .docx document as a PDF"),
		mcp.WithString("input", mcp.Description("Document path"), mcp.Required()),
		mcp.WithString("page_size", mcp.Description("A3, A4, A5, Letter or Legal (default A4)")),
		mcp.WithString("output", mcp.Description("Output file or directory (optional)")),
	), s.handleDocToPDF)

	// ── inspect_pdf ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("inspect_pdf",
		mcp.WithDescription("Report a PDF's page count, page sizes in points and the text of each page"),
		mcp.WithString("input", mcp.Description("PDF path"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleInspect)
}

func boolPtr(v bool) *bool { return &v }

func (s *Server) handleCombine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	inputs, err := s.readInputs(args, "inputs")
	if err != nil {
		return nil, err
	}
	arr, err := getOrder(args)
	if err != nil {
		return nil, err
	}
	out, err := s.tools.Combine(inputs, arr, "")
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "inputs"), out)
	if err != nil {
		return nil, err
	}
	n, _ := pdfops.PageCount(out.Data)
	return jsonResult(map[string]any{"output": dest, "pages": n})
}

func (s *Server) handleSplit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	in, err := s.readInput(args, "input")
	if err != nil {
		return nil, err
	}
	out, err := s.tools.Split(in)
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "input"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest})
}

func (s *Server) handleSign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	inputs, err := s.readInputs(args, "inputs")
	if err != nil {
		return nil, err
	}
	var marks []pdfops.Mark
	if err := getJSON(args, "marks", &marks); err != nil {
		return nil, err
	}
	if len(marks) == 0 {
		return nil, fmt.Errorf("marks is required")
	}
	var sig []byte
	if getString(args, "signature") != "" {
		f, err := s.readInput(args, "signature")
		if err != nil {
			return nil, err
		}
		sig = f.Data
	}
	out, err := s.tools.Sign(inputs, marks, sig, "")
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "inputs"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest, "marks": len(marks)})
}

func (s *Server) handleImagesToPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	inputs, err := s.readInputs(args, "inputs")
	if err != nil {
		return nil, err
	}
	arr, err := getOrder(args)
	if err != nil {
		return nil, err
	}
	out, skipped, err := s.tools.ImagesToPDF(inputs, arr, "")
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "inputs"), out)
	if err != nil {
		return nil, err
	}
	if skipped == nil {
		skipped = []string{}
	}
	return jsonResult(map[string]any{"output": dest, "skipped": skipped})
}

func (s *Server) handleDocToPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	in, err := s.readInput(args, "input")
	if err != nil {
		return nil, err
	}
	out, err := s.tools.DocToPDF(in, typeset.Options{PageSize: getString(args, "page_size")})
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "input"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest})
}

func (s *Server) handleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := s.readInput(req.GetArguments(), "input")
	if err != nil {
		return nil, err
	}
	info, err := s.tools.Inspect(in)
	if err != nil {
		return nil, err
	}
	return jsonResult(info)
}
