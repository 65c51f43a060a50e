package focus

import "fyne.io/fyne/v2"

const stageHeight = float32(150)

// stageLayout stacks the ring bar over the clock and parks the rocket in the
// lower right corner, where the flight animation starts from.
type stageLayout struct{}

func (layout *stageLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	bar, clock, rocket := objects[0], objects[1], objects[2]

	barSize := bar.MinSize()
	bar.Move(fyne.NewPos(0, 0))
	bar.Resize(fyne.NewSize(size.Width, barSize.Height))

	clockSize := clock.MinSize()
	clockY := barSize.Height + (size.Height-barSize.Height-clockSize.Height)/2
	if clockY < barSize.Height {
		clockY = barSize.Height
	}
	clock.Move(fyne.NewPos(0, clockY))
	clock.Resize(fyne.NewSize(size.Width, clockSize.Height))

	rocketSize := rocket.MinSize()
	rocket.Resize(rocketSize)
	rocket.Move(fyne.NewPos(size.Width-rocketSize.Width, size.Height-rocketSize.Height))
}

func (layout *stageLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	width := objects[0].MinSize().Width
	if clockWidth := objects[1].MinSize().Width + objects[2].MinSize().Width*2; clockWidth > width {
		width = clockWidth
	}
	height := objects[0].MinSize().Height + objects[1].MinSize().Height + objects[2].MinSize().Height
	if height < stageHeight {
		height = stageHeight
	}
	return fyne.NewSize(width, height)
}
