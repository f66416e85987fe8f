package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// ErrReplayDiverged is returned when re-running a replay does not reproduce
// the recorded outcome.
var ErrReplayDiverged = errors.New("replay diverged")

// ReplayStep is one accepted action and the number of deltas it produced.
type ReplayStep struct {
	Actor  int          `json:"actor"`
	Action rules.Action `json:"action"`
	Deltas int          `json:"deltas"`
}

// Replay is a recorded match. The root seed, setup and seat names are enough
// to rebuild the initial board; the steps are re-applied on top of it.
type Replay struct {
	GameID       string
	Seed         uint64
	Setup        string
	Names        []string
	Steps        []ReplayStep
	Checksum     string // final board hash, empty while recording
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for a match
func NewReplay(gameID string, seed uint64, setup string, names []string) *Replay {
	return &Replay{
		GameID: gameID,
		Seed:   seed,
		Setup:  setup,
		Names:  slices.Clone(names),
		Steps:  make([]ReplayStep, 0),
	}
}

// RecordStep appends an accepted action.
func (r *Replay) RecordStep(actor int, a rules.Action, deltas int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, ReplayStep{Actor: actor, Action: a, Deltas: deltas})
}

// Finish stores the hash of the final board.
func (r *Replay) Finish(checksum string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Checksum = checksum
}

// Start rewinds playback to the first step
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the next step and advances playback.
func (r *Replay) Next() (ReplayStep, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.Steps) {
		step := r.Steps[r.CurrentIndex]
		r.CurrentIndex++
		return step, true
	}
	return ReplayStep{}, false
}

// Previous steps playback back by one and returns that step.
func (r *Replay) Previous() (ReplayStep, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Steps[r.CurrentIndex], true
	}
	return ReplayStep{}, false
}

// Size returns the number of recorded steps
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Steps)
}

// GetStepAt returns the step at index.
func (r *Replay) GetStepAt(index int) (ReplayStep, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index >= 0 && index < len(r.Steps) {
		return r.Steps[index], true
	}
	return ReplayStep{}, false
}

// InitialBoard deals the board the recording started from.
func (r *Replay) InitialBoard() (*Board, error) {
	setup, err := cards.SetupByName(r.Setup)
	if err != nil {
		return nil, err
	}
	return NewBoard(r.Names, setup, rng.New(r.Seed))
}

// Rebuild re-runs every step against a freshly dealt board and returns the
// final board. Each step must succeed and produce the recorded delta count.
func (r *Replay) Rebuild() (*Board, error) {
	board, err := r.InitialBoard()
	if err != nil {
		return nil, fmt.Errorf("failed to deal initial board: %w", err)
	}

	r.mu.RLock()
	steps := slices.Clone(r.Steps)
	r.mu.RUnlock()

	for i, step := range steps {
		deltas, err := board.DoAction(step.Actor, step.Action)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w: %w", i, step.Action, ErrReplayDiverged, err)
		}
		if len(deltas) != step.Deltas {
			return nil, fmt.Errorf("step %d (%s): %d deltas, recorded %d: %w",
				i, step.Action, len(deltas), step.Deltas, ErrReplayDiverged)
		}
	}
	return board, nil
}

// Verify rebuilds the replay and compares the final hash with the recorded one.
func (r *Replay) Verify() (*Board, error) {
	board, err := r.Rebuild()
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	expected := r.Checksum
	r.mu.RUnlock()
	if expected == "" {
		return board, nil
	}
	ok, err := board.VerifyChecksum(&SerializationChecksum{Hash: expected, Version: checksumVersion})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("final checksum: %w", ErrReplayDiverged)
	}
	return board, nil
}

// replayMetadata heads a replay file
type replayMetadata struct {
	GameID    string
	Timestamp time.Time
	Version   int
	Seed      uint64
	Setup     string
	Names     []string
	Checksum  string
	StepCount int
}

const replayVersion = 1

// ReplayPath is where SaveToFile writes the replay of gameID.
func ReplayPath(directory, gameID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
}

// SaveToFile writes the replay to <directory>/<game id>.replay.
func (r *Replay) SaveToFile(directory string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return r.WriteFile(ReplayPath(directory, r.GameID))
}

// WriteFile writes the replay as gzip-compressed gob records: a metadata
// header followed by one record per step.
func (r *Replay) WriteFile(filename string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:    r.GameID,
		Timestamp: time.Now(),
		Version:   replayVersion,
		Seed:      r.Seed,
		Setup:     r.Setup,
		Names:     r.Names,
		Checksum:  r.Checksum,
		StepCount: len(r.Steps),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Steps {
		if err := encoder.Encode(&r.Steps[i]); err != nil {
			return fmt.Errorf("failed to encode step %d: %w", i, err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return file.Sync()
}

// LoadReplayFromFile loads <directory>/<game id>.replay.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	return ReadReplayFile(ReplayPath(directory, gameID))
}

// ReadReplayFile loads a replay written by WriteFile.
func ReadReplayFile(filename string) (*Replay, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed, metadata.Setup, metadata.Names)
	replay.Checksum = metadata.Checksum
	for i := 0; i < metadata.StepCount; i++ {
		var step ReplayStep
		if err := decoder.Decode(&step); err != nil {
			return nil, fmt.Errorf("failed to decode step %d: %w", i, err)
		}
		replay.Steps = append(replay.Steps, step)
	}
	return replay, nil
}

// ReplayRecorder keeps the replays of running games and writes finished
// ones to disk.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay // gameID -> Replay
	saveDir string
}

// NewReplayRecorder creates a recorder writing into saveDir
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// StartRecording begins recording a game.
func (rr *ReplayRecorder) StartRecording(gameID string, seed uint64, setup string, names []string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, seed, setup, names)
	rr.logger.Info("started replay recording",
		zap.String("game_id", gameID),
		zap.Uint64("seed", seed),
	)
}

// RecordStep appends a step if gameID is being recorded.
func (rr *ReplayRecorder) RecordStep(gameID string, actor int, a rules.Action, deltas int) {
	rr.mu.RLock()
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if replay == nil {
		return
	}
	replay.RecordStep(actor, a, deltas)
}

// GetReplay returns the in-memory replay for a game
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, exists := rr.replays[gameID]
	return replay, exists
}

// SaveReplay stamps the final checksum, writes the replay to disk and
// forgets it.
func (rr *ReplayRecorder) SaveReplay(gameID, checksum string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	replay.Finish(checksum)
	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("step_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay loads a saved replay by game ID.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("step_count", replay.Size()),
	)
	return replay, nil
}

// ClearReplay drops a replay without saving it
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
}

// IsRecording reports whether gameID is being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	_, ok := rr.replays[gameID]
	return ok
}
