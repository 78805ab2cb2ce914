package scene

import "image"

// Viewport returns the part of the map shown on a view of the given size,
// centred on the player and clamped to the map edges. Maps smaller than the
// view stick to the top left corner.
func (s *Tilemap) Viewport(view image.Point) image.Rectangle {
	var cam image.Point
	if s.Player != nil {
		b := s.Player.Bounds()
		cam = b.Min.Add(b.Size().Div(2)).Sub(view.Div(2))
	}

	world := s.Grid.Bounds().Size()
	if cam.X+view.X > world.X {
		cam.X = world.X - view.X
	}
	if cam.Y+view.Y > world.Y {
		cam.Y = world.Y - view.Y
	}
	if cam.X < 0 {
		cam.X = 0
	}
	if cam.Y < 0 {
		cam.Y = 0
	}

	return image.Rectangle{Min: cam, Max: cam.Add(view)}
}
