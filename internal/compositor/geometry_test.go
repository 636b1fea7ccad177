package compositor

import "testing"

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		srcW, srcH       int
		dstW, dstH       int
		wantW, wantH     int
		wantOffX, wantOY int
	}{
		{"portrait into square", 300, 600, 512, 512, 256, 512, 128, 0},
		{"landscape into square", 800, 400, 512, 512, 512, 256, 0, 128},
		{"exact fit", 512, 512, 512, 512, 512, 512, 0, 0},
		{"upscale small", 10, 10, 100, 50, 50, 50, 25, 0},
		{"one pixel", 1, 1, 7, 5, 5, 5, 1, 0},
		{"tall sliver clamps width", 1, 1000, 100, 100, 1, 100, 49, 0},
		{"wide sliver clamps height", 1000, 1, 100, 100, 100, 1, 0, 49},
		{"odd remainder floors offset", 100, 100, 101, 50, 50, 50, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Fit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if p.Width != tt.wantW || p.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", p.Width, p.Height, tt.wantW, tt.wantH)
			}
			if p.OffsetX != tt.wantOffX || p.OffsetY != tt.wantOY {
				t.Errorf("offset = (%d,%d), want (%d,%d)", p.OffsetX, p.OffsetY, tt.wantOffX, tt.wantOY)
			}
		})
	}
}

func TestFit_Properties(t *testing.T) {
	sources := [][2]int{{1, 1}, {1, 1000}, {1000, 1}, {300, 600}, {800, 400}, {4000, 3000}, {17, 13}, {2, 9999}}
	targets := [][2]int{{1, 1}, {2, 3}, {512, 512}, {1920, 1080}, {7, 1000}, {1000, 7}, {33, 33}}

	for _, s := range sources {
		for _, d := range targets {
			p := Fit(s[0], s[1], d[0], d[1])

			if p.Width < 1 || p.Height < 1 {
				t.Fatalf("Fit(%v,%v) produced degenerate size %dx%d", s, d, p.Width, p.Height)
			}
			if p.OffsetX+p.Width > d[0] || p.OffsetY+p.Height > d[1] {
				t.Errorf("Fit(%v,%v) overflows canvas: %+v", s, d, p)
			}
			if diff := d[0] - (2*p.OffsetX + p.Width); diff < 0 || diff > 1 {
				t.Errorf("Fit(%v,%v) not centered horizontally: %+v", s, d, p)
			}
			if diff := d[1] - (2*p.OffsetY + p.Height); diff < 0 || diff > 1 {
				t.Errorf("Fit(%v,%v) not centered vertically: %+v", s, d, p)
			}

			clamped := p.Width == 1 || p.Height == 1
			if !clamped && p.Width != d[0] && p.Height != d[1] {
				t.Errorf("Fit(%v,%v) touches neither axis: %+v", s, d, p)
			}
		}
	}
}
