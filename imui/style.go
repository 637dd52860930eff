package imui

import "github.com/go-theft-auto/imbridge"

// Spacing scale used by the default style.
const (
	SpaceXS float32 = 2
	SpaceSM float32 = 4
	SpaceMD float32 = 8
	SpaceLG float32 = 12
)

// Style defines the visual appearance of widgets.
type Style struct {
	TextColor         uint32
	TextDisabledColor uint32

	WindowBgColor     uint32
	WindowBorderColor uint32
	TitleBgColor      uint32
	TitleActiveColor  uint32

	ButtonColor        uint32
	ButtonHoveredColor uint32
	ButtonActiveColor  uint32

	SelectedBgColor uint32
	HoveredBgColor  uint32

	FrameBgColor        uint32 // inputs, drags, checkboxes
	FrameHoveredColor   uint32
	FrameActiveColor    uint32
	FrameBorderColor    uint32
	CheckMarkColor      uint32
	TextCursorColor     uint32
	HeaderColor         uint32 // collapsing headers
	HeaderHoveredColor  uint32
	SeparatorColor      uint32
	TableBorderColor    uint32
	TableRowBgAltColor  uint32
	PopupBgColor        uint32
	ComboArrowColor     uint32
	SliderGrabColor     uint32
	SliderGrabActive    uint32
	SliderFillColor     uint32
	ResizeGripColor     uint32
	PlotLineColor       uint32

	FontScale     float32
	ItemSpacing   float32
	WindowPadding float32
	FramePadding  float32
	IndentSpacing float32
	ItemWidth     float32 // default width of sliders, drags and inputs
	BorderSize    float32
	GrabWidth     float32
}

// DefaultStyle returns the default dark style.
func DefaultStyle() Style {
	return Style{
		TextColor:         imbridge.ColorWhite,
		TextDisabledColor: imbridge.RGBA(128, 128, 128, 255),

		WindowBgColor:     imbridge.RGBA(20, 20, 24, 235),
		WindowBorderColor: imbridge.RGBA(80, 80, 80, 255),
		TitleBgColor:      imbridge.RGBA(40, 40, 45, 255),
		TitleActiveColor:  imbridge.RGBA(41, 74, 122, 255),

		ButtonColor:        imbridge.RGBA(50, 50, 50, 255),
		ButtonHoveredColor: imbridge.RGBA(70, 70, 70, 255),
		ButtonActiveColor:  imbridge.RGBA(90, 90, 90, 255),

		SelectedBgColor: imbridge.RGBA(50, 100, 150, 255),
		HoveredBgColor:  imbridge.RGBA(60, 60, 60, 255),

		FrameBgColor:       imbridge.RGBA(30, 30, 30, 255),
		FrameHoveredColor:  imbridge.RGBA(45, 45, 55, 255),
		FrameActiveColor:   imbridge.RGBA(40, 40, 60, 255),
		FrameBorderColor:   imbridge.RGBA(100, 100, 100, 255),
		CheckMarkColor:     imbridge.RGBA(66, 150, 250, 255),
		TextCursorColor:    imbridge.RGBA(230, 230, 230, 255),
		HeaderColor:        imbridge.RGBA(45, 60, 85, 255),
		HeaderHoveredColor: imbridge.RGBA(60, 80, 115, 255),
		SeparatorColor:     imbridge.RGBA(80, 80, 80, 255),
		TableBorderColor:   imbridge.RGBA(70, 70, 70, 255),
		TableRowBgAltColor: imbridge.RGBA(35, 35, 35, 255),
		PopupBgColor:       imbridge.RGBA(25, 25, 25, 250),
		ComboArrowColor:    imbridge.RGBA(180, 180, 180, 255),
		SliderGrabColor:    imbridge.RGBA(100, 100, 100, 255),
		SliderGrabActive:   imbridge.RGBA(140, 140, 140, 255),
		SliderFillColor:    imbridge.RGBA(50, 100, 150, 255),
		ResizeGripColor:    imbridge.RGBA(66, 150, 250, 100),
		PlotLineColor:      imbridge.RGBA(156, 156, 156, 255),

		FontScale:     1.0,
		ItemSpacing:   SpaceSM,
		WindowPadding: SpaceMD,
		FramePadding:  SpaceSM,
		IndentSpacing: 16,
		ItemWidth:     160,
		BorderSize:    1,
		GrabWidth:     10,
	}
}
