package shivam

import (
	"context"
	"errors"
	"math"
	"testing"
)

type fakeMedia struct {
	src      string
	loads    []string
	plays    int
	paused   bool
	ended    bool
	cur      float64
	dur      float64
	volume   float64
	playErr  error
	loadErr  error
	failSrc  map[string]error
	seekedTo []float64
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, dur: math.NaN()}
}

func (m *fakeMedia) Load(ctx context.Context, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.loadErr != nil {
		return m.loadErr
	}
	if err := m.failSrc[src]; err != nil {
		return err
	}
	m.src = src
	m.loads = append(m.loads, src)
	m.paused = true
	m.ended = false
	m.cur = 0
	return nil
}

func (m *fakeMedia) Play() error {
	if m.playErr != nil {
		return m.playErr
	}
	m.plays++
	m.paused = false
	return nil
}

func (m *fakeMedia) Pause()               { m.paused = true }
func (m *fakeMedia) Paused() bool         { return m.paused }
func (m *fakeMedia) Ended() bool          { return m.ended }
func (m *fakeMedia) CurrentTime() float64 { return m.cur }
func (m *fakeMedia) Duration() float64    { return m.dur }
func (m *fakeMedia) SetVolume(v float64)  { m.volume = v }

func (m *fakeMedia) SetCurrentTime(s float64) error {
	m.cur = s
	m.seekedTo = append(m.seekedTo, s)
	return nil
}

type fakePipeline struct {
	starts int
	err    error
}

func (p *fakePipeline) Start(context.Context) error {
	p.starts++
	return p.err
}

func testTracks(n int) []Track {
	specs := make([]TrackSpec, n)
	for i := range specs {
		specs[i] = TrackSpec{Title: string(rune('A' + i)), Source: string(rune('a'+i)) + ".mp3"}
	}
	return NewTracks(specs, "")
}

func newTestPlayer(t *testing.T, n int) (*Player, *fakeMedia, *fakePipeline) {
	t.Helper()
	m := newFakeMedia()
	pipe := &fakePipeline{}
	pl, err := NewPlayer(testTracks(n), m, WithPipeline(pipe))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return pl, m, pipe
}

func TestNewPlayerRequiresTracks(t *testing.T) {
	if _, err := NewPlayer(nil, newFakeMedia()); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("err = %v, want ErrNoTracks", err)
	}
}

func TestNewPlayerLoadsFirstTrack(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 3)
	if m.src != "a.mp3" {
		t.Fatalf("loaded source = %q, want a.mp3", m.src)
	}
	if pl.Index() != 0 || pl.IsPlaying() {
		t.Fatalf("index=%d playing=%v, want 0/false", pl.Index(), pl.IsPlaying())
	}
	if m.volume != 1 {
		t.Fatalf("initial volume = %v, want 1", m.volume)
	}
}

func TestTogglePlayRoundTrip(t *testing.T) {
	pl, m, pipe := newTestPlayer(t, 2)
	ctx := context.Background()

	if err := pl.TogglePlay(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !pl.IsPlaying() || m.Paused() {
		t.Fatalf("after first toggle playing=%v paused=%v", pl.IsPlaying(), m.Paused())
	}
	if err := pl.TogglePlay(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if pl.IsPlaying() || !m.Paused() {
		t.Fatalf("after second toggle playing=%v paused=%v", pl.IsPlaying(), m.Paused())
	}
	for i := 0; i < 10; i++ {
		_ = pl.TogglePlay(ctx)
		if pl.IsPlaying() == m.Paused() {
			t.Fatalf("toggle %d: flag %v out of sync with media paused=%v", i, pl.IsPlaying(), m.Paused())
		}
	}
	if pipe.starts != 1 {
		t.Fatalf("pipeline started %d times, want 1", pipe.starts)
	}
}

func TestTogglePlayPipelineFailureIsRetried(t *testing.T) {
	pl, m, pipe := newTestPlayer(t, 1)
	pipe.err = errors.New("no output device")

	if err := pl.TogglePlay(context.Background()); err == nil {
		t.Fatal("expected pipeline error")
	}
	if pl.IsPlaying() || m.plays != 0 {
		t.Fatalf("play issued before pipeline was running")
	}
	pipe.err = nil
	if err := pl.TogglePlay(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !pl.IsPlaying() || pipe.starts != 2 {
		t.Fatalf("playing=%v starts=%d, want true/2", pl.IsPlaying(), pipe.starts)
	}
}

func TestTogglePlayRejectedKeepsFlagInSync(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 1)
	m.playErr = errors.New("not allowed")
	if err := pl.TogglePlay(context.Background()); err == nil {
		t.Fatal("expected play error")
	}
	if pl.IsPlaying() {
		t.Fatal("flag set although media is paused")
	}
}

func TestSelectTrack(t *testing.T) {
	cases := []struct {
		name       string
		playing    bool
		index      int
		wantIndex  int
		wantSrc    string
		wantErr    error
		wantPlays  int
		wantLoads  int
		wantActive bool
	}{
		{name: "paused in range", index: 2, wantIndex: 2, wantSrc: "c.mp3", wantLoads: 2},
		{name: "playing in range", playing: true, index: 1, wantIndex: 1, wantSrc: "b.mp3", wantPlays: 2, wantLoads: 2, wantActive: true},
		{name: "negative ignored", index: -1, wantIndex: 0, wantSrc: "a.mp3", wantErr: ErrIndexOutOfRange, wantLoads: 1},
		{name: "too large ignored", playing: true, index: 3, wantIndex: 0, wantSrc: "a.mp3", wantErr: ErrIndexOutOfRange, wantPlays: 1, wantLoads: 1, wantActive: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pl, m, _ := newTestPlayer(t, 3)
			if tc.playing {
				if err := pl.TogglePlay(context.Background()); err != nil {
					t.Fatalf("toggle: %v", err)
				}
			}
			err := pl.SelectTrack(context.Background(), tc.index)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if pl.Index() != tc.wantIndex || m.src != tc.wantSrc {
				t.Fatalf("index=%d src=%q, want %d/%q", pl.Index(), m.src, tc.wantIndex, tc.wantSrc)
			}
			if m.plays != tc.wantPlays || len(m.loads) != tc.wantLoads {
				t.Fatalf("plays=%d loads=%d, want %d/%d", m.plays, len(m.loads), tc.wantPlays, tc.wantLoads)
			}
			if pl.IsPlaying() != tc.wantActive {
				t.Fatalf("playing = %v, want %v", pl.IsPlaying(), tc.wantActive)
			}
		})
	}
}

func TestSelectTrackResetsPosition(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 2)
	m.cur = 42
	if err := pl.SelectTrack(context.Background(), 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if m.CurrentTime() != 0 {
		t.Fatalf("position = %v, want 0", m.CurrentTime())
	}
}

func TestOnTrackEndWrapsAndAutoplays(t *testing.T) {
	pl, m, pipe := newTestPlayer(t, 2)
	ctx := context.Background()

	wantIdx := []int{1, 0}
	for step, want := range wantIdx {
		if err := pl.OnTrackEnd(ctx); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if pl.Index() != want {
			t.Fatalf("step %d: index = %d, want %d", step, pl.Index(), want)
		}
		if !pl.IsPlaying() || m.Paused() {
			t.Fatalf("step %d: not playing after track end", step)
		}
	}
	wantLoads := []string{"a.mp3", "b.mp3", "a.mp3"}
	if len(m.loads) != len(wantLoads) {
		t.Fatalf("loads = %v, want %v", m.loads, wantLoads)
	}
	for i := range wantLoads {
		if m.loads[i] != wantLoads[i] {
			t.Fatalf("loads = %v, want %v", m.loads, wantLoads)
		}
	}
	if m.plays != 2 || pipe.starts != 1 {
		t.Fatalf("plays=%d starts=%d, want 2/1", m.plays, pipe.starts)
	}
}

func TestOnTrackEndPlaysEvenWhenPaused(t *testing.T) {
	pl, _, _ := newTestPlayer(t, 3)
	ctx := context.Background()
	_ = pl.TogglePlay(ctx)
	_ = pl.TogglePlay(ctx)
	if pl.IsPlaying() {
		t.Fatal("precondition: expected paused")
	}
	if err := pl.OnTrackEnd(ctx); err != nil {
		t.Fatalf("track end: %v", err)
	}
	if !pl.IsPlaying() || pl.Index() != 1 {
		t.Fatalf("playing=%v index=%d, want true/1", pl.IsPlaying(), pl.Index())
	}
}

func TestSeek(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 1)

	if err := pl.Seek(0.5); err != nil {
		t.Fatalf("seek unknown duration: %v", err)
	}
	if len(m.seekedTo) != 0 || math.IsNaN(m.cur) {
		t.Fatalf("seek with unknown duration touched media: %v", m.seekedTo)
	}

	m.dur = 200
	for _, f := range []float64{0, 0.25, 1} {
		if err := pl.Seek(f); err != nil {
			t.Fatalf("seek %v: %v", f, err)
		}
		if got, want := m.cur, f*200; math.Abs(got-want) > 1e-9 {
			t.Fatalf("seek %v: time = %v, want %v", f, got, want)
		}
	}
	_ = pl.Seek(3)
	if m.cur != 200 {
		t.Fatalf("seek past end should clamp, got %v", m.cur)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 1)
	pl.SetVolume(0.35)
	if m.volume != 0.35 || pl.Volume() != 0.35 {
		t.Fatalf("volume = %v/%v, want 0.35", m.volume, pl.Volume())
	}
	pl.SetVolume(-2)
	if m.volume != 0 {
		t.Fatalf("volume should clamp to 0, got %v", m.volume)
	}
	pl.SetVolume(7)
	if m.volume != 1 {
		t.Fatalf("volume should clamp to 1, got %v", m.volume)
	}
}

func TestTickDisplay(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 2)
	ctx := context.Background()

	d, err := pl.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if d.Elapsed != "0:00" || d.Remaining != "-0:00" || d.Progress != 0 {
		t.Fatalf("unknown duration display = %+v", d)
	}
	if d.NowPlaying != "Now Playing: A" {
		t.Fatalf("now playing = %q", d.NowPlaying)
	}

	m.dur = 0
	if d, _ = pl.Tick(ctx); d.Progress != 0 || d.Elapsed != "0:00" {
		t.Fatalf("zero duration display = %+v", d)
	}

	m.dur = 185
	m.cur = 65.9
	d, _ = pl.Tick(ctx)
	if d.Elapsed != "1:05" || d.Remaining != "-1:59" {
		t.Fatalf("display = %+v", d)
	}
	if math.Abs(d.Progress-65.9/185) > 1e-9 {
		t.Fatalf("progress = %v", d.Progress)
	}
}

func TestTickAdvancesOnEnded(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 2)
	m.ended = true
	d, err := pl.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if pl.Index() != 1 || !pl.IsPlaying() {
		t.Fatalf("index=%d playing=%v, want 1/true", pl.Index(), pl.IsPlaying())
	}
	if d.NowPlaying != "Now Playing: B" {
		t.Fatalf("now playing = %q", d.NowPlaying)
	}
}

func TestSwapTracksFollowsCurrent(t *testing.T) {
	pl, _, _ := newTestPlayer(t, 3)
	if err := pl.SelectTrack(context.Background(), 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	current := pl.Current()
	if err := pl.SwapTracks(0, 1); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if pl.Index() != 0 || pl.Current().ID != current.ID {
		t.Fatalf("index=%d current=%q, want 0/%q", pl.Index(), pl.Current().Title, current.Title)
	}
	titles := ""
	for _, tr := range pl.Tracks() {
		titles += tr.Title
	}
	if titles != "BAC" {
		t.Fatalf("order = %q, want BAC", titles)
	}
	if err := pl.SwapTracks(0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestWatchReceivesEvents(t *testing.T) {
	pl, _, _ := newTestPlayer(t, 2)
	ch := pl.Watch()
	if err := pl.TogglePlay(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := pl.SelectTrack(context.Background(), 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	want := []int{EventPlaying, EventTrackChanged}
	for i, kind := range want {
		select {
		case ev := <-ch:
			if ev.Kind != kind {
				t.Fatalf("event %d kind = %d, want %d", i, ev.Kind, kind)
			}
		default:
			t.Fatalf("missing event %d", i)
		}
	}
}

func TestNewPlayerSurvivesLoadFailure(t *testing.T) {
	m := newFakeMedia()
	missing := errors.New("missing file")
	m.failSrc = map[string]error{"a.mp3": missing}
	pl, err := NewPlayer(testTracks(2), m, WithPipeline(&fakePipeline{}))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if pl.Index() != 0 || pl.IsPlaying() {
		t.Fatalf("index=%d playing=%v, want 0/false", pl.Index(), pl.IsPlaying())
	}
	if !errors.Is(pl.LoadError(), missing) {
		t.Fatalf("LoadError = %v, want %v", pl.LoadError(), missing)
	}
	if d := pl.Display(); d.NowPlaying != "Now Playing: A" || d.Elapsed != "0:00" {
		t.Fatalf("display = %+v", d)
	}

	// playing retries the load once the file is there
	if err := pl.TogglePlay(context.Background()); !errors.Is(err, missing) {
		t.Fatalf("toggle err = %v, want %v", err, missing)
	}
	if pl.IsPlaying() || m.plays != 0 {
		t.Fatal("played a track that is not loaded")
	}
	delete(m.failSrc, "a.mp3")
	if err := pl.TogglePlay(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !pl.IsPlaying() || m.src != "a.mp3" || pl.LoadError() != nil {
		t.Fatalf("playing=%v src=%q loadErr=%v", pl.IsPlaying(), m.src, pl.LoadError())
	}
}

func TestTrackEndLoadFailureAdvancesOnce(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 3)
	ctx := context.Background()
	if err := pl.TogglePlay(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	m.failSrc = map[string]error{"b.mp3": errors.New("unreachable")}
	m.ended = true
	m.paused = true

	errs := 0
	for range 5 {
		if _, err := pl.Tick(ctx); err != nil {
			errs++
		}
	}
	if errs != 1 {
		t.Fatalf("tick errors = %d, want 1", errs)
	}
	if pl.Index() != 1 || pl.IsPlaying() {
		t.Fatalf("index=%d playing=%v, want 1/false", pl.Index(), pl.IsPlaying())
	}
	if len(m.loads) != 1 {
		t.Fatalf("loads = %v, want only the first track", m.loads)
	}
	if d := pl.Display(); d.NowPlaying != "Now Playing: B" || d.Progress != 0 {
		t.Fatalf("display = %+v", d)
	}

	// the next track end starts from the failed track
	if err := pl.OnTrackEnd(ctx); err != nil {
		t.Fatalf("track end: %v", err)
	}
	if pl.Index() != 2 || !pl.IsPlaying() || m.src != "c.mp3" {
		t.Fatalf("index=%d playing=%v src=%q", pl.Index(), pl.IsPlaying(), m.src)
	}
}

func TestSelectTrackCanceledContext(t *testing.T) {
	pl, m, _ := newTestPlayer(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pl.SelectTrack(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if pl.Index() != 0 || m.src != "a.mp3" || pl.LoadError() != nil {
		t.Fatalf("index=%d src=%q loadErr=%v", pl.Index(), m.src, pl.LoadError())
	}
}

func TestSwapTracksWithoutIDs(t *testing.T) {
	tracks := []Track{{Title: "A", Source: "a.mp3"}, {Title: "B", Source: "b.mp3"}, {Title: "C", Source: "c.mp3"}}
	pl, err := NewPlayer(tracks, newFakeMedia())
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if err := pl.SelectTrack(context.Background(), 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	cases := []struct {
		i, j      int
		wantIndex int
		wantTitle string
	}{
		{i: 0, j: 1, wantIndex: 2, wantTitle: "C"},
		{i: 2, j: 0, wantIndex: 0, wantTitle: "C"},
		{i: 1, j: 0, wantIndex: 1, wantTitle: "C"},
		{i: 1, j: 1, wantIndex: 1, wantTitle: "C"},
	}
	for _, tc := range cases {
		if err := pl.SwapTracks(tc.i, tc.j); err != nil {
			t.Fatalf("swap %d,%d: %v", tc.i, tc.j, err)
		}
		if pl.Index() != tc.wantIndex || pl.Current().Title != tc.wantTitle {
			t.Fatalf("swap %d,%d: index=%d current=%q, want %d/%q", tc.i, tc.j, pl.Index(), pl.Current().Title, tc.wantIndex, tc.wantTitle)
		}
	}
}
