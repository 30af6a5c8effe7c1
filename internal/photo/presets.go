package photo

import "strings"

// Size is a named output size for social networks.
type Size struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SocialSizes lists the cover-fit presets offered by the editor.
var SocialSizes = []Size{
	{Label: "YouTube Thumbnail", Width: 1280, Height: 720},

	{Label: "Instagram Profile", Width: 320, Height: 320},
	{Label: "Instagram Landscape", Width: 1080, Height: 566},
	{Label: "Instagram Portrait", Width: 1080, Height: 1350},
	{Label: "Instagram Square", Width: 1080, Height: 1080},
	{Label: "Instagram Stories", Width: 1080, Height: 1920},

	{Label: "Facebook Profile", Width: 170, Height: 170},
	{Label: "Facebook Landscape", Width: 1200, Height: 630},
	{Label: "Facebook Portrait", Width: 630, Height: 1200},
	{Label: "Facebook Square", Width: 1200, Height: 1200},
	{Label: "Facebook Stories", Width: 1080, Height: 1920},
	{Label: "Facebook Cover", Width: 851, Height: 315},

	{Label: "Twitter Profile", Width: 400, Height: 400},
	{Label: "Twitter Landscape", Width: 1024, Height: 512},
	{Label: "Twitter Cover", Width: 1500, Height: 500},

	{Label: "Linkedin Profile", Width: 400, Height: 400},
	{Label: "Linkedin Landscape", Width: 1200, Height: 627},
	{Label: "Linkedin Portrait", Width: 627, Height: 1200},
	{Label: "Linkedin Cover", Width: 1128, Height: 191},
}

// LookupSize finds a preset by label, case-insensitively.
func LookupSize(label string) (Size, bool) {
	for _, s := range SocialSizes {
		if strings.EqualFold(s.Label, strings.TrimSpace(label)) {
			return s, true
		}
	}
	return Size{}, false
}
