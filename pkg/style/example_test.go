package style_test

import (
	"fmt"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/style"
)

func ExampleShapeFor() {
	shape, icon := style.ShapeFor(arch.TypeClient)
	fmt.Println(shape, icon)

	// Unknown types fall back to the service rectangle.
	shape, icon = style.ShapeFor(arch.NodeType("mainframe"))
	fmt.Println(shape, icon)
	// Output:
	// ellipse 📱
	// rectangle ⚙️
}

func ExampleColorsFor() {
	c := style.ColorsFor(arch.StatusNew)
	fmt.Println(c.Stroke, c.Fill)
	// Output:
	// #2f9e44 #d3f9d8
}
