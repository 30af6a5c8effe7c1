package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/humantools/internal/files"
	"github.com/dgallion1/humantools/internal/meme"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/tools"
)

func (s *Server) registerPhotoTools() {
	// ── edit_photos ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("edit_photos",
		mcp.WithDescription(`Edit photos and bundle the results as a zip of JPEGs (0001.jpg, ...). settings is one JSON object applied to every photo, or an array with one object per photo. Fields: rotate (degrees, -180..180), scale (>=1), crop {x,y,width,height}, filters {brightness,contrast,opacity,saturate (percent, 100 = unchanged), sepia,grayscale,invert (percent), hue_rotate (degrees), blur (px)}, frame {top,bottom,left,right,color}, preset (e.g. "Instagram Square"), download_scale.`),
		mcp.WithString("inputs", mcp.Description("Comma-separated image paths"), mcp.Required()),
		mcp.WithString("settings", mcp.Description("JSON settings object or array (optional, default leaves photos unchanged)")),
		mcp.WithString("output", mcp.Description("Output zip file or directory (optional)")),
	), s.handleEditPhotos)

	// ── create_meme ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_meme",
		mcp.WithDescription(`Caption one image as a meme PNG. meme is JSON: {"width":600,"rotation":90,"flip_x":false,"flip_y":false,"layers":[{"text":"TOP","x":0.1,"y":0.05,"width":0.8,"font_size":48,"weight":"bold","color":"#fff","align":"center","all_caps":true}]}. Positions and widths are fractions of the canvas.`),
		mcp.WithString("input", mcp.Description("Image path"), mcp.Required()),
		mcp.WithString("meme", mcp.Description("JSON meme description"), mcp.Required()),
		mcp.WithString("output", mcp.Description("Output file or directory (optional)")),
	), s.handleMeme)

	// ── create_slideshow ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_slideshow",
		mcp.WithDescription("Render photos as a 1024x576 slideshow. mp4 needs ffmpeg; gif is rendered in-process."),
		mcp.WithString("inputs", mcp.Description("Comma-separated image paths"), mcp.Required()),
		mcp.WithString("order", mcp.Description("Comma-separated 1-based photo numbers; repeats allowed (optional)")),
		mcp.WithNumber("duration", mcp.Description("Seconds per slide (optional)")),
		mcp.WithString("format", mcp.Description("mp4 or gif (optional)"), mcp.Enum("mp4", "gif")),
		mcp.WithString("output", mcp.Description("Output file or directory (optional)")),
	), s.handleSlideshow)
}

func (s *Server) handleEditPhotos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	inputs, err := s.readInputs(args, "inputs")
	if err != nil {
		return nil, err
	}
	settings, err := decodeSettings(getString(args, "settings"))
	if err != nil {
		return nil, err
	}
	out, err := s.tools.EditPhotos(ctx, inputs, settings, nil)
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "inputs"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest, "photos": len(inputs)})
}

// decodeSettings accepts an object or an array of objects, each decoded over
// the identity settings.
func decodeSettings(raw string) ([]photo.Settings, error) {
	if raw == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, err
		}
	} else {
		items = []json.RawMessage{json.RawMessage(raw)}
	}
	out := make([]photo.Settings, len(items))
	for i, item := range items {
		out[i] = photo.DefaultSettings()
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Server) handleMeme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	in, err := s.readInput(args, "input")
	if err != nil {
		return nil, err
	}
	var m meme.Meme
	if err := getJSON(args, "meme", &m); err != nil {
		return nil, err
	}
	out, err := s.tools.Meme([]files.File{in}, m)
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "input"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest})
}

func (s *Server) handleSlideshow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	inputs, err := s.readInputs(args, "inputs")
	if err != nil {
		return nil, err
	}
	arr, err := getOrder(args)
	if err != nil {
		return nil, err
	}
	secs := getFloat(args, "duration", 0)
	out, err := s.tools.Slideshow(ctx, inputs, tools.SlideshowParams{
		Order:    arr,
		Duration: time.Duration(secs * float64(time.Second)),
		Format:   getString(args, "format"),
	}, nil)
	if err != nil {
		return nil, err
	}
	dest, err := writeOutput(args, firstPath(args, "inputs"), out)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"output": dest, "content_type": out.ContentType})
}
