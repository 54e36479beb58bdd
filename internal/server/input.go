package server

import (
	"time"
	"unicode/utf8"

	"github.com/blackwitch/wtmux/internal/copymode"
	"github.com/blackwitch/wtmux/internal/ipc"
	"github.com/blackwitch/wtmux/internal/keybind"
	"github.com/blackwitch/wtmux/internal/mux"
)

// decodedChord pairs a parsed key chord with the exact input bytes it
// came from, so bytes destined for the pane (Result.Forward) can be
// written through unmodified instead of re-synthesized from the chord.
type decodedChord struct {
	chord keybind.Chord
	raw   []byte
}

// decodeChords turns a raw input chunk into a sequence of chords. It
// recognizes Ctrl-letter control bytes, common CSI/SS3 escape sequences
// for arrows/navigation/function keys, and otherwise decodes UTF-8 runes
// one at a time. This covers the bindings default table and
// copy-mode use, not the full space of terminal escape sequences.
func decodeChords(data []byte) []decodedChord {
	var out []decodedChord
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b && i+1 < len(data) && data[i+1] == '[':
			end := i + 2
			for end < len(data) && !(data[end] >= 0x40 && data[end] <= 0x7e) {
				end++
			}
			if end < len(data) {
				end++
			}
			seq := data[i:end]
			out = append(out, decodedChord{chord: csiChord(seq), raw: seq})
			i = end
		case b == 0x1b && i+1 < len(data) && data[i+1] == 'O' && i+2 < len(data):
			seq := data[i : i+3]
			out = append(out, decodedChord{chord: ss3Chord(seq), raw: seq})
			i += 3
		case b == 0x1b && i+1 < len(data):
			r, size := utf8.DecodeRune(data[i+1:])
			seq := data[i : i+1+size]
			out = append(out, decodedChord{chord: keybind.Chord{Mod: keybind.ModAlt, Key: keybind.KeyCode(r)}, raw: seq})
			i += 1 + size
		case b == 0x1b:
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeyEscape}, raw: data[i : i+1]})
			i++
		case b == 0x7f:
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeyBackspace}, raw: data[i : i+1]})
			i++
		case b == '\t':
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeyTab}, raw: data[i : i+1]})
			i++
		case b == '\r' || b == '\n':
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeyEnter}, raw: data[i : i+1]})
			i++
		case b == ' ':
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeySpace}, raw: data[i : i+1]})
			i++
		case b >= 1 && b <= 26:
			out = append(out, decodedChord{chord: keybind.Chord{Mod: keybind.ModCtrl, Key: keybind.KeyCode('a' + rune(b-1))}, raw: data[i : i+1]})
			i++
		default:
			r, size := utf8.DecodeRune(data[i:])
			out = append(out, decodedChord{chord: keybind.Chord{Key: keybind.KeyCode(r)}, raw: data[i : i+size]})
			i += size
		}
	}
	return out
}

func csiChord(seq []byte) keybind.Chord {
	s := string(seq)
	switch s {
	case "\x1b[A":
		return keybind.Chord{Key: keybind.KeyUp}
	case "\x1b[B":
		return keybind.Chord{Key: keybind.KeyDown}
	case "\x1b[C":
		return keybind.Chord{Key: keybind.KeyRight}
	case "\x1b[D":
		return keybind.Chord{Key: keybind.KeyLeft}
	case "\x1b[H":
		return keybind.Chord{Key: keybind.KeyHome}
	case "\x1b[F":
		return keybind.Chord{Key: keybind.KeyEnd}
	case "\x1b[5~":
		return keybind.Chord{Key: keybind.KeyPgUp}
	case "\x1b[6~":
		return keybind.Chord{Key: keybind.KeyPgDn}
	}
	return keybind.Chord{Key: keybind.KeyEscape}
}

func ss3Chord(seq []byte) keybind.Chord {
	switch string(seq) {
	case "\x1bOP":
		return keybind.Chord{Key: keybind.KeyF1}
	case "\x1bOQ":
		return keybind.Chord{Key: keybind.KeyF2}
	case "\x1bOR":
		return keybind.Chord{Key: keybind.KeyF3}
	case "\x1bOS":
		return keybind.Chord{Key: keybind.KeyF4}
	}
	return keybind.Chord{Key: keybind.KeyEscape}
}

// resolveChord re-implements keybind.Dispatcher.Handle's Normal/Prefixed
// switch against a per-client ClientState instead of the Dispatcher's own
// state field, so two attached clients advance independent prefix state
// machines against the one shared pair of binding tables.
func (s *Server) resolveChord(c *clientConn, chord keybind.Chord) keybind.Result {
	keys := s.Exec.Keys
	switch c.chordState {
	case keybind.Prefixed:
		c.chordState = keybind.Normal
		if cmd, ok := keys.Prefix.Lookup(chord); ok {
			return keybind.Result{Command: cmd}
		}
		return keybind.Result{Bell: true}
	default:
		if cmd, ok := keys.Root.Lookup(chord); ok {
			return keybind.Result{Command: cmd}
		}
		if chord == keys.PrefixChord {
			c.chordState = keybind.Prefixed
			return keybind.Result{}
		}
		return keybind.Result{Forward: true}
	}
}

func (s *Server) handleInput(c *clientConn, data []byte) {
	if c.SessionName == "" {
		return
	}
	sess, err := s.Registry.Get(c.SessionName)
	if err != nil {
		c.SessionName = ""
		c.sendDetached("session no longer exists")
		return
	}
	w := sess.ActiveWindow()
	pane := w.Panes[w.ActivePaneID]

	var forward []byte
	flush := func() {
		if len(forward) > 0 && pane != nil && pane.PTY != nil {
			pane.PTY.WriteTimeout(forward, 3*time.Second)
		}
		forward = forward[:0]
	}

	for _, dc := range decodeChords(data) {
		if pane != nil && pane.InCopyMode() {
			flush()
			s.handleCopyModeChord(c, pane, dc.chord)
			continue
		}
		res := s.resolveChord(c, dc.chord)
		switch {
		case res.Command != "":
			flush()
			msg, err := s.Exec.Dispatch(c.ID, c.SessionName, c.Rows, c.Cols, res.Command)
			if err != nil {
				c.message = err.Error()
			} else {
				c.message = msg
			}
		case res.Bell:
			flush()
			c.send(ipc.ServerMessage{Kind: ipc.ServerBell})
		case res.Forward:
			forward = append(forward, dc.raw...)
		}
	}
	flush()
	s.redrawClient(c)
}

// handleCopyModeChord drives the vi-subset navigation state machine
// instead of forwarding keys to the pane.
func (s *Server) handleCopyModeChord(c *clientConn, p *mux.Pane, chord keybind.Chord) {
	cm := p.CopyMode
	if c.copySearch {
		s.handleSearchInputChord(c, cm, chord)
		return
	}
	switch chord.Key {
	case keybind.KeyLeft:
		cm.MoveLeft()
	case keybind.KeyRight:
		cm.MoveRight()
	case keybind.KeyUp:
		cm.MoveUp()
	case keybind.KeyDown:
		cm.MoveDown()
	case keybind.KeyPgUp:
		cm.FullPage(true)
	case keybind.KeyPgDn:
		cm.FullPage(false)
	case keybind.KeyHome:
		cm.MoveLineStart()
	case keybind.KeyEnd:
		cm.MoveLineEnd()
	case keybind.KeyEscape:
		p.ExitCopyMode()
	case keybind.KeyEnter:
		if cm.HasSelection() {
			s.Exec.Paste.Push("", []byte(cm.ExtractSelection()))
		}
		p.ExitCopyMode()
	case keybind.KeyCode('h'):
		cm.MoveLeft()
	case keybind.KeyCode('l'):
		cm.MoveRight()
	case keybind.KeyCode('k'):
		cm.MoveUp()
	case keybind.KeyCode('j'):
		cm.MoveDown()
	case keybind.KeyCode('0'):
		cm.MoveLineStart()
	case keybind.KeyCode('$'):
		cm.MoveLineEnd()
	case keybind.KeyCode('g'):
		cm.MoveBufferStart()
	case keybind.KeyCode('G'):
		cm.MoveBufferEnd()
	case keybind.KeyCode('q'):
		p.ExitCopyMode()
	case keybind.KeyCode(' '):
		cm.SetAnchor(copymode.Character)
	case keybind.KeyCode('V'):
		cm.SetAnchor(copymode.Line)
	case keybind.KeyCode('/'):
		c.copySearch = true
		c.searchDir = copymode.Forward
		c.searchBuf = c.searchBuf[:0]
	case keybind.KeyCode('?'):
		c.copySearch = true
		c.searchDir = copymode.Backward
		c.searchBuf = c.searchBuf[:0]
	case keybind.KeyCode('n'):
		cm.RepeatSearch(false)
	case keybind.KeyCode('N'):
		cm.RepeatSearch(true)
	}
	if chord.Mod&keybind.ModCtrl != 0 {
		switch chord.Key {
		case keybind.KeyCode('u'):
			cm.HalfPage(true)
		case keybind.KeyCode('d'):
			cm.HalfPage(false)
		}
	}
}

func (s *Server) handleSearchInputChord(c *clientConn, cm *copymode.State, chord keybind.Chord) {
	switch chord.Key {
	case keybind.KeyEnter:
		c.copySearch = false
		cm.Search(string(c.searchBuf), c.searchDir)
	case keybind.KeyEscape:
		c.copySearch = false
	case keybind.KeyBackspace:
		if len(c.searchBuf) > 0 {
			c.searchBuf = c.searchBuf[:len(c.searchBuf)-1]
		}
	default:
		if chord.Key >= 0x20 {
			c.searchBuf = append(c.searchBuf, rune(chord.Key))
		}
	}
}
