package gsb

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// SwitchBlockToTrackIDs returns the tracks on side `to` that track
// `fromTrack` on side `from` connects to, in a channel of n tracks. Fs must
// be a multiple of 3; each step of 3 adds one track.
func SwitchBlockToTrackIDs(
	sbType fabric.SwitchBlockType,
	fs int,
	from fabric.Side,
	fromTrack int,
	to fabric.Side,
	n int,
) ([]int, error) {
	if fs%3 != 0 {
		return nil, rrgraph.Configf("switch block", "Fs %d is not a multiple of 3", fs)
	}

	if n <= 0 {
		return nil, nil
	}

	list := func(t int) []int {
		var ids []int
		for i := 0; i < fs; i += 3 {
			ids = append(ids, (t+i)%n)
		}

		return ids
	}

	a := fromTrack % n

	switch sbType {
	case fabric.Subset:
		return list(a), nil
	case fabric.Universal:
		return list(universalTrack(from, to, a, n)), nil
	case fabric.Wilton:
		return list(wiltonTrack(from, to, fromTrack, a, n)), nil
	default:
		return nil, rrgraph.Configf("switch block", "unknown switch block type %d", sbType)
	}
}

func universalTrack(from, to fabric.Side, a, n int) int {
	mirrored := to == from.Clockwise()
	if from == fabric.Top || from == fabric.Bottom {
		mirrored = to == from.CounterClockwise()
	}

	if mirrored {
		return n - 1 - a
	}

	return a
}

func wiltonTrack(from, to fabric.Side, fromTrack, a, n int) int {
	switch from {
	case fabric.Left:
		switch to {
		case fabric.Top:
			return (n - a) % n
		case fabric.Bottom:
			return (n + a - 1) % n
		}
	case fabric.Right:
		switch to {
		case fabric.Top:
			return (n + a - 1) % n
		case fabric.Bottom:
			return (2*n - 2 - a) % n
		}
	case fabric.Bottom:
		switch to {
		case fabric.Left:
			return (a + 1) % n
		case fabric.Right:
			return (2*n - 2 - a) % n
		}
	case fabric.Top:
		switch to {
		case fabric.Bottom:
			return fromTrack
		case fabric.Left:
			return (n - a) % n
		case fabric.Right:
			return (a + 1) % n
		}
	}

	return a
}
