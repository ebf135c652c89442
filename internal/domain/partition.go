package domain

import "fmt"

// Sequence is a contiguous run of frames destined for one output video.
// Position is its 0-based rank among all partitioned sequences.
type Sequence struct {
	Position int
	Frames   []FramePath
}

func (s Sequence) Len() int {
	return len(s.Frames)
}

// Partition splits the index into contiguous groups of groupSize frames; the
// last group holds the remainder. A groupSize of 0 keeps every frame in a
// single sequence. An empty index yields no sequences.
func Partition(index FrameIndex, groupSize int) ([]Sequence, error) {
	if groupSize < 0 {
		return nil, fmt.Errorf("%w: frames per video must not be negative, got %d", ErrConfiguration, groupSize)
	}

	n := index.Len()
	if n == 0 {
		return nil, nil
	}
	if groupSize == 0 {
		groupSize = n
	}

	sequences := make([]Sequence, 0, (n+groupSize-1)/groupSize)
	for lo := 0; lo < n; lo += groupSize {
		hi := min(lo+groupSize, n)
		sequences = append(sequences, Sequence{
			Position: len(sequences),
			Frames:   index.frames[lo:hi:hi],
		})
	}
	return sequences, nil
}

// Window keeps the first count sequences. A count of 0, or one larger than
// the number of sequences, keeps all of them.
func Window(sequences []Sequence, count int) []Sequence {
	if count <= 0 || count >= len(sequences) {
		return sequences
	}
	return sequences[:count:count]
}

// MaxPad bounds the zero-padding width of job names.
const MaxPad = 18

// PoolConfig holds the immutable knobs of a run.
type PoolConfig struct {
	GroupSize   int
	WorkerLimit int
	WindowStart int
	WindowCount int
	Pad         int
}

func (c PoolConfig) Validate() error {
	switch {
	case c.GroupSize < 0:
		return fmt.Errorf("%w: frames per video must not be negative, got %d", ErrConfiguration, c.GroupSize)
	case c.WorkerLimit <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfiguration, c.WorkerLimit)
	case c.WindowStart < 0:
		return fmt.Errorf("%w: start must not be negative, got %d", ErrConfiguration, c.WindowStart)
	case c.WindowCount < 0:
		return fmt.Errorf("%w: end must not be negative, got %d", ErrConfiguration, c.WindowCount)
	case c.Pad < 0:
		return fmt.Errorf("%w: pad must not be negative, got %d", ErrConfiguration, c.Pad)
	case c.Pad > MaxPad:
		return fmt.Errorf("%w: pad must not exceed %d, got %d", ErrConfiguration, MaxPad, c.Pad)
	}
	return nil
}
