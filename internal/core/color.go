package core

// Color is a terminal foreground color: an ANSI 256-color index ("1") or a
// hex triplet ("#7f6a6a"). The empty string means the terminal default.
type Color string

// Predefined colors for game elements.
const (
	ColorDefault     Color = ""
	ColorRed         Color = "1"
	ColorGreen       Color = "2"
	ColorYellow      Color = "3"
	ColorBlue        Color = "4"
	ColorMagenta     Color = "5"
	ColorCyan        Color = "6"
	ColorWhite       Color = "7"
	ColorBrightRed   Color = "9"
	ColorBrightWhite Color = "15"
	ColorOrange      Color = "208"
	ColorGray        Color = "245"
	ColorDim         Color = "238"
)
