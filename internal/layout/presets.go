package layout

// Preset is a supported screen resolution with a known inventory layout.
type Preset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Presets lists the resolutions the game ships layouts for. Anything else
// falls back to the nearest preset by total pixel difference.
var Presets = []Preset{
	{Name: "720p", Width: 1280, Height: 720},
	{Name: "768p", Width: 1366, Height: 768},
	{Name: "900p", Width: 1600, Height: 900},
	{Name: "1080p", Width: 1920, Height: 1080},
	{Name: "ultrawide-1080", Width: 2560, Height: 1080},
	{Name: "1440p", Width: 2560, Height: 1440},
	{Name: "ultrawide-1440", Width: 3440, Height: 1440},
	{Name: "4k", Width: 3840, Height: 2160},
}

// referenceHeight is the height the reference layout below was measured at.
const referenceHeight = 1080

// refLayout describes slot geometry at 1080p. Everything scales linearly
// with the height ratio; horizontal positions are additionally re-centered
// for aspect ratios wider than 16:9.
type refLayout struct {
	slotSize    int // square icon slot edge
	slotSpacing int // gap between adjacent slots
	hotbarX     int // left edge of the first hotbar column
	hotbarY     int // top edge of the upper hotbar row
	hotbarCols  int
	hotbarRows  int
	weaponX     int
	weaponY     int
	weaponCount int
	tomeX       int
	tomeY       int
	tomeCount   int
	portraitX   int
	portraitY   int
	portraitW   int
	portraitH   int
	centerX     int // reference horizontal center (half of 1920)
}

var reference = refLayout{
	slotSize:    66,
	slotSpacing: 8,
	hotbarX:     248,
	hotbarY:     916,
	hotbarCols:  10,
	hotbarRows:  2,
	weaponX:     248,
	weaponY:     842,
	weaponCount: 4,
	tomeX:       584,
	tomeY:       842,
	tomeCount:   4,
	portraitX:   128,
	portraitY:   896,
	portraitW:   96,
	portraitH:   96,
	centerX:     960,
}

// bandFraction bounds the inventory strip: no slot region may start above
// this fraction of the image height. Keeps the scan away from the gameplay
// area, which is the dominant source of stray matches.
const bandFraction = 0.55

// MaxSlots caps the number of regions emitted per image to bound the
// worst-case comparison cost.
const MaxSlots = 30
