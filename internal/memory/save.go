package memory

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lox/memory/internal/fileutil"
)

// SaveExt is appended to save file names that have no extension.
const SaveExt = ".mem"

// SavedPlayer is one player's section of a save file.
type SavedPlayer struct {
	Name   string
	Badges []int
}

// SaveState is everything a .mem file records.
//
// The layout is fixed: six lines of six card ids, then player one's name and
// badge ids, player two's name and badge ids, and finally 0 or 1 for whose
// turn it is.
type SaveState struct {
	Grid    []int
	Players [2]SavedPlayer
	Current int
}

// Validate applies the same checks as DecodeSave.
func (s *SaveState) Validate() error {
	if err := validateGrid(s.Grid); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	for i, p := range s.Players {
		for _, id := range p.Badges {
			if err := validateID(id); err != nil {
				return fmt.Errorf("%w: player %d badge: %v", ErrMalformedSave, i+1, err)
			}
		}
	}
	if s.Current != 0 && s.Current != 1 {
		return fmt.Errorf("%w: current player marker %d, want 0 or 1", ErrMalformedSave, s.Current)
	}
	return nil
}

// SaveState captures the game in its save representation.
func (g *Game) SaveState() *SaveState {
	s := &SaveState{
		Grid:    make([]int, len(g.cards)),
		Current: g.current,
	}
	for i, c := range g.cards {
		s.Grid[i] = c.ID()
	}
	for i, p := range g.players {
		s.Players[i] = SavedPlayer{Name: p.Name(), Badges: p.BadgeIDs()}
	}
	return s
}

// EncodeSave writes the game in .mem format. A game that has not been dealt
// cannot be written, since the file could never be read back.
func (g *Game) EncodeSave(w io.Writer) error {
	s := g.SaveState()
	if err := validateGrid(s.Grid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	return EncodeSave(w, s)
}

// WriteSaveFile saves the game to path, adding SaveExt when the file name
// has no extension. The write is atomic. It returns the path written.
func (g *Game) WriteSaveFile(path string) (string, error) {
	path = fileutil.WithDefaultExt(path, SaveExt)

	var buf bytes.Buffer
	if err := g.EncodeSave(&buf); err != nil {
		return path, fmt.Errorf("encode save: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return path, fmt.Errorf("write save %s: %w", path, err)
	}

	g.logger.Info("Saved game", "game", g.id, "path", path)
	return path, nil
}

// ReadSaveFile loads the save at path. The file is fully decoded and
// validated before anything is applied, so on error the game is unchanged.
func (g *Game) ReadSaveFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read save %s: %w", path, err)
	}
	if err := g.LoadSave(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("load save %s: %w", path, err)
	}
	g.logger.Info("Loaded game", "game", g.id, "path", path)
	return nil
}

// LoadSave decodes a save from r and applies it.
func (g *Game) LoadSave(r io.Reader) error {
	state, err := DecodeSave(r)
	if err != nil {
		return err
	}
	return g.Restore(state)
}

// Restore replaces the players, the grid and the turn with s. The players
// are new objects; nothing is merged with the previous ones.
func (g *Game) Restore(s *SaveState) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var players [2]*Player
	for i, saved := range s.Players {
		p := NewPlayer(saved.Name)
		for _, id := range saved.Badges {
			p.AddBadge(NewBadge(id))
		}
		players[i] = p
	}

	g.id = g.newID()
	g.players = players
	g.current = s.Current
	// Validate already checked the grid
	_ = g.LoadCards(s.Grid)
	return nil
}

var nameReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// EncodeSave writes s in .mem format. Each id is followed by a single space,
// and there is no newline after the final marker.
func EncodeSave(w io.Writer, s *SaveState) error {
	bw := bufio.NewWriter(w)

	for i, id := range s.Grid {
		fmt.Fprintf(bw, "%d ", id)
		if (i+1)%GridColumns == 0 {
			bw.WriteByte('\n')
		}
	}

	for _, p := range s.Players {
		bw.WriteString(nameReplacer.Replace(p.Name))
		bw.WriteByte('\n')
		for _, id := range p.Badges {
			fmt.Fprintf(bw, "%d ", id)
		}
		bw.WriteByte('\n')
	}

	bw.WriteString(strconv.Itoa(s.Current))
	return bw.Flush()
}

// DecodeSave parses a .mem file. The grid, each player and the current
// player marker are read in independent passes; any failure rejects the
// whole save with an error wrapping ErrMalformedSave.
func DecodeSave(r io.Reader) (*SaveState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}

	grid, err := ReadSaveGrid(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	one, err := ReadSavePlayer(bytes.NewReader(data), 1)
	if err != nil {
		return nil, err
	}
	two, err := ReadSavePlayer(bytes.NewReader(data), 2)
	if err != nil {
		return nil, err
	}
	current, err := ReadSaveCurrentPlayer(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &SaveState{
		Grid:    grid,
		Players: [2]SavedPlayer{one, two},
		Current: current,
	}, nil
}

// ReadSaveGrid reads the card ids at the top of a save.
func ReadSaveGrid(r io.Reader) ([]int, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	grid, _ := scanGrid(lines)
	if err := validateGrid(grid); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	return grid, nil
}

// ReadSavePlayer reads the name and badges of player n (1 or 2).
func ReadSavePlayer(r io.Reader, n int) (SavedPlayer, error) {
	if n != 1 && n != 2 {
		return SavedPlayer{}, fmt.Errorf("player number %d, want 1 or 2", n)
	}
	lines, err := readLines(r)
	if err != nil {
		return SavedPlayer{}, err
	}

	_, end := scanGrid(lines)
	nameLine := end + 2*(n-1)
	if nameLine+1 >= len(lines) {
		return SavedPlayer{}, fmt.Errorf("%w: missing section for player %d", ErrMalformedSave, n)
	}

	player := SavedPlayer{Name: lines[nameLine]}
	for _, field := range strings.Fields(lines[nameLine+1]) {
		id, err := strconv.Atoi(field)
		if err != nil {
			return SavedPlayer{}, fmt.Errorf("%w: player %d badge %q is not an integer", ErrMalformedSave, n, field)
		}
		if err := validateID(id); err != nil {
			return SavedPlayer{}, fmt.Errorf("%w: player %d badge: %v", ErrMalformedSave, n, err)
		}
		player.Badges = append(player.Badges, id)
	}
	return player, nil
}

// ReadSaveCurrentPlayer reads the final 0/1 marker.
func ReadSaveCurrentPlayer(r io.Reader) (int, error) {
	lines, err := readLines(r)
	if err != nil {
		return 0, err
	}

	_, end := scanGrid(lines)
	markerLine := end + 4
	if markerLine >= len(lines) {
		return 0, fmt.Errorf("%w: missing current player marker", ErrMalformedSave)
	}

	fields := strings.Fields(lines[markerLine])
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: current player line %q", ErrMalformedSave, lines[markerLine])
	}
	current, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: current player marker %q is not an integer", ErrMalformedSave, fields[0])
	}
	if current != 0 && current != 1 {
		return 0, fmt.Errorf("%w: current player marker %d, want 0 or 1", ErrMalformedSave, current)
	}
	return current, nil
}

func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// scanGrid collects ids from the leading lines made up only of integers and
// returns them with the index of the first line after the grid.
func scanGrid(lines []string) ([]int, int) {
	var ids []int
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return ids, i
		}
		row := make([]int, 0, len(fields))
		for _, field := range fields {
			id, err := strconv.Atoi(field)
			if err != nil {
				return ids, i
			}
			row = append(row, id)
		}
		ids = append(ids, row...)
	}
	return ids, len(lines)
}
