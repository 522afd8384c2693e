package timeline

import "unicode/utf16"

// Color is one palette entry. ANSI is an xterm-256 index for terminals.
type Color struct {
	Name string
	Hex  string
	ANSI string
}

// Palette is the fixed category palette; order is part of the hash contract.
var Palette = [...]Color{
	{Name: "bg-blue-500", Hex: "#3B82F6", ANSI: "33"},
	{Name: "bg-emerald-500", Hex: "#10B981", ANSI: "36"},
	{Name: "bg-violet-500", Hex: "#8B5CF6", ANSI: "99"},
	{Name: "bg-amber-500", Hex: "#F59E0B", ANSI: "214"},
	{Name: "bg-rose-500", Hex: "#F43F5E", ANSI: "204"},
	{Name: "bg-cyan-500", Hex: "#06B6D4", ANSI: "38"},
	{Name: "bg-fuchsia-500", Hex: "#D946EF", ANSI: "170"},
	{Name: "bg-indigo-500", Hex: "#6366F1", ANSI: "63"},
	{Name: "bg-orange-500", Hex: "#F97316", ANSI: "208"},
	{Name: "bg-teal-500", Hex: "#14B8A6", ANSI: "37"},
	{Name: "bg-lime-500", Hex: "#84CC16", ANSI: "112"},
	{Name: "bg-pink-500", Hex: "#EC4899", ANSI: "205"},
}

// Neutral is used for tasks without a category.
var Neutral = Color{Name: "bg-gray-500", Hex: "#6B7280", ANSI: "244"}

// CategoryColor picks a palette color for category. The mapping is stable across runs.
func CategoryColor(category string) Color {
	if category == "" {
		return Neutral
	}
	return Palette[CategoryIndex(category)]
}

// CategoryIndex returns the palette slot for a non-empty category.
func CategoryIndex(category string) int {
	h := categoryHash(category)
	if h < 0 {
		h = -h
	}
	return int(h % int64(len(Palette)))
}

// categoryHash is the rolling hash code + ((h << 5) - h) over UTF-16 code units.
// Only the shift truncates to 32 bits; the running value is carried in 64 bits.
func categoryHash(s string) int64 {
	var h int64
	for _, unit := range utf16.Encode([]rune(s)) {
		shifted := int64(int32(h) << 5)
		h = int64(unit) + (shifted - h)
	}
	return h
}
