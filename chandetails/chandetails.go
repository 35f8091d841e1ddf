// Package chandetails describes the tracks of one channel cross-section:
// their direction, segment and whether a wire starts or ends there.
package chandetails

import (
	"github.com/sarchlab/tileablerr/fabric"
	"github.com/sarchlab/tileablerr/rrgraph"
)

// Track is one track of a channel cross-section.
type Track struct {
	NodeID        rrgraph.OptNodeID
	Direction     rrgraph.Direction
	Segment       fabric.SegmentID
	SegmentLength int
	IsStart       bool
	IsEnd         bool
}

// ChanNodeDetails lists the tracks of a channel cross-section in track
// order.
type ChanNodeDetails struct {
	tracks []Track
}

// AddTrack appends a track.
func (d *ChanNodeDetails) AddTrack(t Track) {
	d.tracks = append(d.tracks, t)
}

// Width returns the number of tracks.
func (d *ChanNodeDetails) Width() int {
	return len(d.tracks)
}

// Track returns a copy of track i.
func (d *ChanNodeDetails) Track(i int) Track {
	return d.tracks[i]
}

func (d *ChanNodeDetails) NodeID(i int) rrgraph.OptNodeID {
	return d.tracks[i].NodeID
}

func (d *ChanNodeDetails) SetNodeID(i int, id rrgraph.NodeID) {
	d.tracks[i].NodeID = rrgraph.SomeNode(id)
}

func (d *ChanNodeDetails) Direction(i int) rrgraph.Direction {
	return d.tracks[i].Direction
}

func (d *ChanNodeDetails) SegmentID(i int) fabric.SegmentID {
	return d.tracks[i].Segment
}

func (d *ChanNodeDetails) SegmentLength(i int) int {
	return d.tracks[i].SegmentLength
}

func (d *ChanNodeDetails) IsStart(i int) bool {
	return d.tracks[i].IsStart
}

func (d *ChanNodeDetails) IsEnd(i int) bool {
	return d.tracks[i].IsEnd
}

// NodeIDs returns the node ids of all tracks.
func (d *ChanNodeDetails) NodeIDs() []rrgraph.OptNodeID {
	ids := make([]rrgraph.OptNodeID, len(d.tracks))
	for i, t := range d.tracks {
		ids[i] = t.NodeID
	}

	return ids
}

// SetNodeIDs overwrites the node ids of all tracks. The widths must match.
func (d *ChanNodeDetails) SetNodeIDs(ids []rrgraph.OptNodeID) {
	rrgraph.Invariantf(len(ids) == len(d.tracks),
		"cannot load %d node ids into a channel of width %d", len(ids), len(d.tracks))

	for i := range d.tracks {
		d.tracks[i].NodeID = ids[i]
	}
}

// SetTracksStart marks every track of the direction as a start.
func (d *ChanNodeDetails) SetTracksStart(dir rrgraph.Direction) {
	for i := range d.tracks {
		if d.tracks[i].Direction == dir {
			d.tracks[i].IsStart = true
		}
	}
}

// SetTracksEnd marks every track of the direction as an end.
func (d *ChanNodeDetails) SetTracksEnd(dir rrgraph.Direction) {
	for i := range d.tracks {
		if d.tracks[i].Direction == dir {
			d.tracks[i].IsEnd = true
		}
	}
}

// SegGroup returns the tracks that belong to the same wire group as track:
// track itself followed by the tracks of the same direction and segment up
// to, but excluding, the next starting one.
func (d *ChanNodeDetails) SegGroup(track int) []int {
	group := []int{track}
	ref := d.tracks[track]

	for i := track + 1; i < len(d.tracks); i++ {
		t := d.tracks[i]
		if t.Direction != ref.Direction || t.Segment != ref.Segment {
			continue
		}

		if t.IsStart {
			break
		}

		group = append(group, i)
	}

	return group
}

// RotateNodeIDs permutes the node ids inside every wire group of the given
// direction. Groups rotate left by offset, or right when counter is set.
func (d *ChanNodeDetails) RotateNodeIDs(offset int, dir rrgraph.Direction, counter bool) {
	for i := range d.tracks {
		if !d.tracks[i].IsStart || d.tracks[i].Direction != dir {
			continue
		}

		group := d.SegGroup(i)

		ids := make([]rrgraph.OptNodeID, len(group))
		for k, t := range group {
			ids[k] = d.tracks[t].NodeID
		}

		k := offset % len(group)
		if counter {
			k = (len(group) - k) % len(group)
		}

		for j, t := range group {
			d.tracks[t].NodeID = ids[(j+k)%len(ids)]
		}
	}
}

// NumStartingTracks counts the starting tracks of a direction.
func (d *ChanNodeDetails) NumStartingTracks(dir rrgraph.Direction) int {
	n := 0
	for _, t := range d.tracks {
		if t.Direction == dir && t.IsStart {
			n++
		}
	}

	return n
}

// NumEndingTracks counts the ending tracks of a direction.
func (d *ChanNodeDetails) NumEndingTracks(dir rrgraph.Direction) int {
	n := 0
	for _, t := range d.tracks {
		if t.Direction == dir && t.IsEnd {
			n++
		}
	}

	return n
}
