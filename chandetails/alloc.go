package chandetails

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// NumTracksPerSegType distributes chanWidth units among the segments in
// proportion to their frequency. With useFullSegGroups, each assignment is a
// full group of length tracks. The counts sum to chanWidth unless a full
// group overshoot had to be undone.
func NumTracksPerSegType(
	chanWidth int,
	segments []fabric.Segment,
	useFullSegGroups bool,
) []int {
	result := make([]int, len(segments))
	if chanWidth <= 0 || len(segments) == 0 {
		return result
	}

	scale := 1
	freqSum := 0
	for _, s := range segments {
		scale *= s.Length
		freqSum += s.Frequency
	}

	reduce := scale * freqSum
	if reduce == 0 {
		return result
	}

	demand := make([]int, len(segments))
	for i, s := range segments {
		demand[i] = scale * chanWidth * s.Frequency
		if useFullSegGroups {
			demand[i] /= s.Length
		}
	}

	assigned := 0
	size := 0
	imax := 0
	for assigned < chanWidth {
		imax = 0
		for i := range demand {
			if demand[i] > demand[imax] {
				imax = i
			}
		}

		size = 1
		if useFullSegGroups {
			size = segments[imax].Length
		}

		demand[imax] -= reduce
		result[imax] += size
		assigned += size
	}

	if assigned-chanWidth > size/2 {
		result[imax] -= size
	}

	return result
}

// UnidirChanWidth rounds a channel width up to an even number, as every
// unidirectional track comes with a track of the opposite direction.
func UnidirChanWidth(chanWidth int) int {
	if chanWidth%2 != 0 {
		return chanWidth + 1
	}

	return chanWidth
}

// BuildUnidir lays out the tracks of a unidirectional channel cross-section.
// Each pair of tracks is an INC track followed by a DEC track of the same
// segment. maxSegLength replaces the length of longline segments.
// forceStart and forceEnd mark a fabric boundary: every wire starts (or
// ends) here regardless of its length.
func BuildUnidir(
	chanWidth, maxSegLength int,
	forceStart, forceEnd bool,
	segments []fabric.Segment,
) *ChanNodeDetails {
	d := &ChanNodeDetails{}

	actual := UnidirChanWidth(chanWidth)
	if actual == 0 {
		return d
	}

	numTracks := NumTracksPerSegType(actual/2, segments, false)

	for seg, s := range segments {
		length := s.Length
		if s.Longline {
			length = maxSegLength
		}

		if length <= 0 {
			length = 1
		}

		for k := 0; k < numTracks[seg]; k++ {
			start := k%length == 0
			end := k%length == length-1 || k == numTracks[seg]-1

			for _, dir := range []rrgraph.Direction{rrgraph.Inc, rrgraph.Dec} {
				d.AddTrack(Track{
					NodeID:        rrgraph.NoNode,
					Direction:     dir,
					Segment:       fabric.SegmentID(seg),
					SegmentLength: length,
					IsStart:       start,
					IsEnd:         end,
				})
			}
		}
	}

	rrgraph.Invariantf(d.Width() == actual,
		"channel details hold %d tracks, want %d", d.Width(), actual)

	if forceStart {
		d.SetTracksStart(rrgraph.Inc)
		d.SetTracksEnd(rrgraph.Dec)
	}

	if forceEnd {
		d.SetTracksStart(rrgraph.Dec)
		d.SetTracksEnd(rrgraph.Inc)
	}

	return d
}
