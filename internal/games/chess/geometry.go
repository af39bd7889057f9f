package chess

// Geometric movement patterns. Reachability here means the piece's movement
// shape permits the step and nothing blocks the path; it says nothing about
// check, which this engine does not model.

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// canReach reports whether the piece on from could travel to the empty-or-
// enemy square to, respecting the mover's shape and line-of-sight blocking.
// The destination's occupancy matters only for pawns, whose push and capture
// shapes differ.
func (s *State) canReach(piece Piece, from, to Square) bool {
	if from == to {
		return false
	}
	dFile := to.File - from.File
	dRank := to.Rank - from.Rank

	switch piece.Kind {
	case Knight:
		return (abs(dFile) == 1 && abs(dRank) == 2) || (abs(dFile) == 2 && abs(dRank) == 1)

	case King:
		return abs(dFile) <= 1 && abs(dRank) <= 1

	case Rook:
		if dFile != 0 && dRank != 0 {
			return false
		}
		return s.pathClear(from, to)

	case Bishop:
		if abs(dFile) != abs(dRank) {
			return false
		}
		return s.pathClear(from, to)

	case Queen:
		if dFile != 0 && dRank != 0 && abs(dFile) != abs(dRank) {
			return false
		}
		return s.pathClear(from, to)

	case Pawn:
		return s.pawnCanReach(piece.Color, from, to)
	}
	return false
}

// pawnCanReach covers the single push, the double push from the start rank,
// and the single diagonal step onto an enemy-occupied square.
func (s *State) pawnCanReach(color Color, from, to Square) bool {
	forward := 1
	startRank := 1
	if color == Black {
		forward = -1
		startRank = 6
	}
	dFile := to.File - from.File
	dRank := to.Rank - from.Rank

	// Straight pushes require empty squares.
	if dFile == 0 {
		if dRank == forward {
			return s.At(to).Empty()
		}
		if dRank == 2*forward && from.Rank == startRank {
			between := Square{File: from.File, Rank: from.Rank + forward}
			return s.At(between).Empty() && s.At(to).Empty()
		}
		return false
	}

	// Diagonal step captures only.
	if abs(dFile) == 1 && dRank == forward {
		target := s.At(to)
		return !target.Empty() && target.Color != color
	}
	return false
}

// pathClear walks the straight or diagonal line between from and to,
// exclusive, and reports whether every square is empty.
func (s *State) pathClear(from, to Square) bool {
	stepFile := sign(to.File - from.File)
	stepRank := sign(to.Rank - from.Rank)

	current := Square{File: from.File + stepFile, Rank: from.Rank + stepRank}
	for current != to {
		if !s.At(current).Empty() {
			return false
		}
		current = Square{File: current.File + stepFile, Rank: current.Rank + stepRank}
	}
	return true
}

// findCandidates returns every square holding a piece of the given color and
// kind that can reach the destination, honoring file/rank hints.
func (s *State) findCandidates(color Color, kind Kind, to Square, fileHint, rankHint int) []Square {
	var candidates []Square
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if fileHint >= 0 && file != fileHint {
				continue
			}
			if rankHint >= 0 && rank != rankHint {
				continue
			}
			from := Square{File: file, Rank: rank}
			piece := s.At(from)
			if piece.Empty() || piece.Color != color || piece.Kind != kind {
				continue
			}
			if s.canReach(piece, from, to) {
				candidates = append(candidates, from)
			}
		}
	}
	return candidates
}
