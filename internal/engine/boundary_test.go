package engine

import (
	"testing"

	"github.com/vovakirdan/calbreak/internal/core"
)

func TestComputePlayArea(t *testing.T) {
	allDay := core.Rect{Left: 70, Top: 100, Right: 1200, Bottom: 140}

	tests := []struct {
		name   string
		layout HostLayout
		want   PlayArea
	}{
		{
			name: "grid only, viewport taller than grid",
			layout: HostLayout{
				Main:           core.Rect{Left: 72, Top: 120, Right: 1190, Bottom: 700},
				ViewportHeight: 900,
			},
			want: PlayArea{
				Origin:  core.V(72, 120),
				Width:   1118,
				Height:  770, // (900-5)-5-120
				SafeTop: 625,
			},
		},
		{
			name: "grid taller than viewport",
			layout: HostLayout{
				Main:           core.Rect{Left: 72, Top: 120, Right: 1190, Bottom: 1500},
				ViewportHeight: 900,
			},
			want: PlayArea{
				Origin:  core.V(72, 120),
				Width:   1118,
				Height:  1375,
				SafeTop: 1230,
			},
		},
		{
			name: "with all-day row",
			layout: HostLayout{
				Main:           core.Rect{Left: 72, Top: 140, Right: 1190, Bottom: 700},
				AllDay:         &allDay,
				ViewportHeight: 900,
			},
			want: PlayArea{
				Origin:       core.V(70, 100),
				Width:        1130,
				Height:       790,
				NonAllDayTop: 40,
				SafeTop:      645,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputePlayArea(tc.layout, 5, 145)
			if got != tc.want {
				t.Errorf("ComputePlayArea = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestPlayAreaBand(t *testing.T) {
	area := PlayArea{Origin: core.V(10, 20), Width: 400, Height: 600, NonAllDayTop: 30, SafeTop: 455}
	band := area.Band()

	if band.Origin != area.Origin || band.NonAllDayTop != 30 || band.SafeTop != 455 {
		t.Errorf("Band = %+v", band)
	}
	if area.SafeZone() != (core.Rect{Left: 0, Top: 455, Right: 400, Bottom: 600}) {
		t.Errorf("SafeZone = %+v", area.SafeZone())
	}
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig()
	st := InitialState(cfg, PlayArea{Width: 400, Height: 600})

	if st.Current.Center != core.V(200, 512.5) {
		t.Errorf("ball = %v, expected (200, 512.5)", st.Current.Center)
	}
	if st.Paddle != core.RectFromSize(150, 578, 100, 20) {
		t.Errorf("paddle = %+v", st.Paddle)
	}
	if st.Dir != core.V(1, 1) {
		t.Errorf("dir = %v, expected (1, 1)", st.Dir)
	}
	if st.Next != st.Current {
		t.Error("next should start equal to current")
	}
}

func TestMovePaddleClamps(t *testing.T) {
	st := InitialState(DefaultConfig(), PlayArea{Width: 400, Height: 600})

	st.MovePaddle(1000, 400)
	if st.Paddle.Left != 300 || st.Paddle.Right != 400 {
		t.Errorf("paddle = %+v, expected pinned right", st.Paddle)
	}
	st.MovePaddle(-1000, 400)
	if st.Paddle.Left != 0 || st.Paddle.Width() != 100 {
		t.Errorf("paddle = %+v, expected pinned left", st.Paddle)
	}
}
