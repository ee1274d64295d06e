package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
)

func touchAt(x, y float32) *mobile.TouchEvent {
	return &mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func recordGestures() (*GestureHandler, *[]GestureType) {
	var got []GestureType
	gh := NewGestureHandler(func(g GestureType) { got = append(got, g) })
	return gh, &got
}

func TestGestureShortTravelIsTap(t *testing.T) {
	gh, got := recordGestures()

	// 30px of diagonal travel is well under the 50px swipe threshold, but
	// its squared displacement is not. It must still read as a tap.
	gh.TouchDown(touchAt(100, 100))
	gh.TouchUp(touchAt(121, 121))

	if len(*got) != 1 || (*got)[0] != GestureTap {
		t.Errorf("Expected a single tap, got %v", *got)
	}
}

func TestGestureSwipeDirections(t *testing.T) {
	cases := []struct {
		name       string
		fromX, toX float32
		fromY, toY float32
		want       GestureType
	}{
		{"right", 100, 180, 100, 110, GestureSwipeRight},
		{"left", 180, 100, 100, 110, GestureSwipeLeft},
		{"down", 100, 110, 100, 180, GestureSwipeDown},
		{"up", 100, 110, 180, 100, GestureSwipeUp},
	}

	for _, tc := range cases {
		gh, got := recordGestures()

		gh.TouchDown(touchAt(tc.fromX, tc.fromY))
		gh.TouchUp(touchAt(tc.toX, tc.toY))

		if len(*got) != 1 || (*got)[0] != tc.want {
			t.Errorf("Swipe %s: expected %v, got %v", tc.name, tc.want, *got)
		}
	}
}

func TestGestureBelowThresholdNeverSwipes(t *testing.T) {
	gh, got := recordGestures()

	// 49px of travel sits just inside the threshold.
	gh.TouchDown(touchAt(100, 100))
	gh.TouchUp(touchAt(149, 100))

	if len(*got) != 1 || (*got)[0] != GestureTap {
		t.Errorf("Expected a tap below the swipe threshold, got %v", *got)
	}
}

func TestGestureLongPress(t *testing.T) {
	gh, got := recordGestures()
	gh.longPressDuration = 10 * time.Millisecond

	gh.TouchDown(touchAt(100, 100))
	time.Sleep(20 * time.Millisecond)
	gh.TouchUp(touchAt(102, 101))

	if len(*got) != 1 || (*got)[0] != GestureLongPress {
		t.Errorf("Expected a long press, got %v", *got)
	}
}
