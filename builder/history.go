package builder

import "github.com/formforge/formforge/model"

// historyLimit bounds how many form snapshots are retained for undo.
const historyLimit = 50

// history is a bounded undo/redo stack of immutable form snapshots with an
// index pointer. Pushing while undone truncates the redo tail.
type history struct {
	snaps []model.Form
	idx   int
}

func newHistory(initial model.Form) *history {
	return &history{snaps: []model.Form{initial.Clone()}}
}

func (h *history) current() model.Form {
	return h.snaps[h.idx].Clone()
}

func (h *history) push(f model.Form) {
	h.snaps = append(h.snaps[:h.idx+1], f.Clone())
	if len(h.snaps) > historyLimit {
		h.snaps = h.snaps[len(h.snaps)-historyLimit:]
	}
	h.idx = len(h.snaps) - 1
}

func (h *history) undo() bool {
	if h.idx == 0 {
		return false
	}
	h.idx--
	return true
}

func (h *history) redo() bool {
	if h.idx == len(h.snaps)-1 {
		return false
	}
	h.idx++
	return true
}

func (h *history) canUndo() bool { return h.idx > 0 }
func (h *history) canRedo() bool { return h.idx < len(h.snaps)-1 }

func (h *history) reset(f model.Form) {
	h.snaps = []model.Form{f.Clone()}
	h.idx = 0
}
