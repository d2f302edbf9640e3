package main

import "image"

const (
	minWindowW = 940
	minWindowH = 600

	pad       = 20
	rowH      = 44
	statusH   = 40
	tracksW   = 320
	trackRowH = lineH + 4
	quoteRows = 3
	eqH       = 120
)

type uiLayout struct {
	header, viz, quote, tracks, eq     image.Rectangle
	progress, progressTrack            image.Rectangle
	play, inspire, theme, mode, vizBtn image.Rectangle
	volume, volumeTrack, status        image.Rectangle
}

func layoutRects(w, h int) uiLayout {
	w = max(w, minWindowW)
	h = max(h, minWindowH)

	statusTop := h - pad - statusH
	controlsTop := statusTop - 8 - rowH
	progressTop := controlsTop - 8 - rowH

	header := image.Rect(pad, pad, w-pad, pad+lineH*2+4)
	eq := image.Rect(w-pad-tracksW, progressTop-12-eqH, w-pad, progressTop-12)
	tracks := image.Rect(w-pad-tracksW, header.Max.Y+8, w-pad, eq.Min.Y-8)
	leftRight := tracks.Min.X - 12

	quoteH := lineH*quoteRows + 24
	quote := image.Rect(pad, progressTop-12-quoteH, leftRight, progressTop-12)
	viz := image.Rect(pad, header.Max.Y+8, leftRight, quote.Min.Y-12)

	progress := image.Rect(pad, progressTop, w-pad, progressTop+rowH)
	progressTrack := image.Rect(progress.Min.X+100, progress.Min.Y+rowH/2-4, progress.Max.X-110, progress.Min.Y+rowH/2+4)

	x := pad
	next := func(width int) image.Rectangle {
		r := image.Rect(x, controlsTop, x+width, controlsTop+rowH)
		x += width + 12
		return r
	}
	play := next(110)
	inspire := next(120)
	themeBtn := next(100)
	mode := next(150)
	vizBtn := next(90)
	volume := image.Rect(x, controlsTop, w-pad, controlsTop+rowH)
	volumeTrack := image.Rect(volume.Min.X+130, volume.Min.Y+rowH/2-4, volume.Max.X-16, volume.Min.Y+rowH/2+4)

	return uiLayout{
		header: header, viz: viz, quote: quote, tracks: tracks, eq: eq,
		progress: progress, progressTrack: progressTrack,
		play: play, inspire: inspire, theme: themeBtn, mode: mode, vizBtn: vizBtn,
		volume: volume, volumeTrack: volumeTrack,
		status: image.Rect(pad, statusTop, w-pad, statusTop+statusH),
	}
}

// vizInner is the drawable area of the visualizer panel.
func (l uiLayout) vizInner() image.Rectangle {
	return l.viz.Inset(8)
}

func (l uiLayout) trackRows() int {
	return max(1, (l.tracks.Dy()-lineH-24)/trackRowH)
}

// trackRowAt maps a y coordinate inside the track list to a row, or -1.
func (l uiLayout) trackRowAt(y int) int {
	top := l.tracks.Min.Y + 12 + lineH + 4
	if y < top {
		return -1
	}
	row := (y - top) / trackRowH
	if row >= l.trackRows() {
		return -1
	}
	return row
}

// sliderFrac maps an x coordinate onto a slider track as 0..1.
func sliderFrac(x int, track image.Rectangle) float64 {
	if track.Dx() <= 0 {
		return 0
	}
	return clamp(float64(x-track.Min.X)/float64(track.Dx()), 0, 1)
}
