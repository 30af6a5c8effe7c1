package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/humantools/internal/meme"
	"github.com/dgallion1/humantools/internal/photo"
	"github.com/dgallion1/humantools/internal/tools"
)

var editPhotosCmd = &cobra.Command{
	Use:   "edit-photos [images...]",
	Short: "Edit photos with one recipe and zip the JPEGs",
	Long: `Edit-photos applies the settings in a YAML file to every photo. The file
holds one recipe for all photos, or a list with one recipe per photo:

  rotate: -3
  scale: 1.1
  crop: {x: 0, y: 0, width: 800, height: 600}
  filters: {brightness: 110, contrast: 105, sepia: 20}
  frame: {top: 20, bottom: 20, left: 20, right: 20, color: "#ffffff"}
  preset: Instagram Square
  download_scale: 0.5

Omitted fields leave the photo unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		var settings []photo.Settings
		if p, _ := cmd.Flags().GetString("settings"); p != "" {
			if settings, err = readSettings(p); err != nil {
				return err
			}
		}
		done := 0
		out, err := kit.EditPhotos(cmd.Context(), inputs, settings, func() {
			done++
			logger.Debug("photo edited", "done", done, "total", len(inputs))
		})
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var memeCmd = &cobra.Command{
	Use:   "meme [image]",
	Short: "Caption an image",
	Long: `Meme draws the text layers from a YAML file over the image:

  width: 600
  rotation: 0
  flip_x: false
  layers:
    - text: top text
      x: 0.1
      y: 0.05
      width: 0.8
      font_size: 48
      color: "#ffffff"
      all_caps: true

Positions and widths are fractions of the canvas.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readFiles(args)
		if err != nil {
			return err
		}
		var m meme.Meme
		if p, _ := cmd.Flags().GetString("layers"); p != "" {
			if err := readYAML(p, &m); err != nil {
				return err
			}
		}
		if text, _ := cmd.Flags().GetStringSlice("text"); len(text) > 0 {
			for i, t := range text {
				m.Layers = append(m.Layers, meme.Layer{Text: t, X: 0.1, Y: 0.05 + 0.8*float64(i)/float64(max(len(text)-1, 1)), Width: 0.8, Color: "#ffffff", AllCaps: true})
			}
		}
		out, err := kit.Meme(inputs, m)
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

var slideshowCmd = &cobra.Command{
	Use:   "slideshow [images...]",
	Short: "Render photos as an MP4 (ffmpeg) or animated GIF",
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
		duration, _ := cmd.Flags().GetDuration("duration")
		format, _ := cmd.Flags().GetString("format")
		out, err := kit.Slideshow(cmd.Context(), inputs, tools.SlideshowParams{
			Order:    arr,
			Duration: duration,
			Format:   format,
		}, func(r float64) {
			logger.Debug("slideshow progress", "percent", fmt.Sprintf("%.0f", r*100))
		})
		if err != nil {
			return err
		}
		return save(cmd, out)
	},
}

func init() {
	editPhotosCmd.Flags().String("settings", "", "YAML file with one recipe or a list of recipes")

	memeCmd.Flags().String("layers", "", "YAML file describing transforms and text layers")
	memeCmd.Flags().StringSlice("text", nil, "quick captions, spread top to bottom (repeatable)")

	slideshowCmd.Flags().String("order", "", "comma-separated 1-based photo numbers; repeats allowed")
	slideshowCmd.Flags().Duration("duration", 0, "time per slide (default from SLIDE_DURATION)")
	slideshowCmd.Flags().String("format", "", "mp4 or gif (default from SLIDESHOW_FORMAT)")

	for _, c := range []*cobra.Command{editPhotosCmd, memeCmd, slideshowCmd} {
		addOutputFlag(c)
	}
	rootCmd.AddCommand(editPhotosCmd, memeCmd, slideshowCmd)
}
