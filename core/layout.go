package core

// dwindleRecurse splits the area among the pids: each level gives the first
// pid half the area and recurses on the remainder, alternating orientation.
// Even depth splits horizontally (first pid left), odd depth vertically
// (first pid on top; y is bottom-origin).
func dwindleRecurse(pids []int, area Rect, cfg *Config, depth int, out []FrameChange) []FrameChange {
	if len(pids) == 0 || len(out) >= MaxApps {
		return out
	}

	if len(pids) == 1 {
		// single app fills entire area
		return append(out, FrameChange{Pid: pids[0], Frame: area})
	}

	if depth%2 == 0 {
		gap := float64(cfg.GapsInner.Left)
		halfWidth := (area.Width - gap) / 2.0

		// first app gets left half
		out = append(out, FrameChange{Pid: pids[0], Frame: Rect{
			X:      area.X,
			Y:      area.Y,
			Width:  halfWidth,
			Height: area.Height,
		}})

		// rest get right half
		right := Rect{
			X:      area.X + halfWidth + gap,
			Y:      area.Y,
			Width:  area.Width - halfWidth - gap,
			Height: area.Height,
		}
		return dwindleRecurse(pids[1:], right, cfg, depth+1, out)
	}

	gap := float64(cfg.GapsInner.Top)
	halfHeight := (area.Height - gap) / 2.0

	// first app gets top half
	out = append(out, FrameChange{Pid: pids[0], Frame: Rect{
		X:      area.X,
		Y:      area.Y + halfHeight + gap,
		Width:  area.Width,
		Height: halfHeight,
	}})

	// rest get bottom half
	bottom := Rect{
		X:      area.X,
		Y:      area.Y,
		Width:  area.Width,
		Height: area.Height - halfHeight - gap,
	}
	return dwindleRecurse(pids[1:], bottom, cfg, depth+1, out)
}

// ComputeDwindle lays out the non-floating apps of a buffer inside the
// gap-inset screen area and returns their frames in registration order.
// Managed status is not consulted here; higher layers filter on it.
func ComputeDwindle(state *State, bufferIndex int, cfg *Config, screen Rect) []FrameChange {
	if state == nil || cfg == nil || bufferIndex < 0 || bufferIndex >= BufferCount {
		return nil
	}

	var pids []int
	for i := 0; i < state.Registry.Count(); i++ {
		app := state.Registry.AppAt(i)
		if app.BufferIndex == bufferIndex && !app.IsFloating {
			pids = append(pids, app.Pid)
		}
	}
	if len(pids) == 0 {
		return nil
	}

	usable := Rect{
		X:      screen.X + float64(cfg.GapsOuter.Left),
		Y:      screen.Y + float64(cfg.GapsOuter.Bottom),
		Width:  screen.Width - float64(cfg.GapsOuter.Left) - float64(cfg.GapsOuter.Right),
		Height: screen.Height - float64(cfg.GapsOuter.Top) - float64(cfg.GapsOuter.Bottom),
	}

	return dwindleRecurse(pids, usable, cfg, 0, nil)
}

// ComputeSnap returns the frame for a one-shot snap placement. All regions
// lie inside the gap-inset usable area except center, which is sized against
// the raw screen and ignores gaps.
func ComputeSnap(snapAction ActionType, screen Rect, cfg *Config) Rect {
	x := screen.X + float64(cfg.GapsOuter.Left)
	y := screen.Y + float64(cfg.GapsOuter.Top)
	width := screen.Width - float64(cfg.GapsOuter.Left) - float64(cfg.GapsOuter.Right)
	height := screen.Height - float64(cfg.GapsOuter.Top) - float64(cfg.GapsOuter.Bottom)

	innerLeft := float64(cfg.GapsInner.Left)
	innerTop := float64(cfg.GapsInner.Top)
	halfWidth := (width - innerLeft) / 2.0
	halfHeight := (height - innerTop) / 2.0

	switch snapAction {
	case ActionSnapLeft:
		return Rect{X: x, Y: y, Width: halfWidth, Height: height}
	case ActionSnapRight:
		return Rect{X: x + halfWidth + innerLeft, Y: y, Width: halfWidth, Height: height}
	case ActionSnapTop:
		return Rect{X: x, Y: y + halfHeight + innerTop, Width: width, Height: halfHeight}
	case ActionSnapBottom:
		return Rect{X: x, Y: y, Width: width, Height: halfHeight}
	case ActionSnapMaximize:
		return Rect{X: x, Y: y, Width: width, Height: height}
	case ActionSnapCenter:
		centerWidth := screen.Width * 0.6
		centerHeight := screen.Height * 0.7
		return Rect{
			X:      screen.X + (screen.Width-centerWidth)/2.0,
			Y:      screen.Y + (screen.Height-centerHeight)/2.0,
			Width:  centerWidth,
			Height: centerHeight,
		}
	case ActionSnapTopLeft:
		return Rect{X: x, Y: y + halfHeight + innerTop, Width: halfWidth, Height: halfHeight}
	case ActionSnapTopRight:
		return Rect{X: x + halfWidth + innerLeft, Y: y + halfHeight + innerTop, Width: halfWidth, Height: halfHeight}
	case ActionSnapBottomLeft:
		return Rect{X: x, Y: y, Width: halfWidth, Height: halfHeight}
	case ActionSnapBottomRight:
		return Rect{X: x + halfWidth + innerLeft, Y: y, Width: halfWidth, Height: halfHeight}
	default:
		return screen
	}
}
