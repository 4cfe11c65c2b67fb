package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

// ErrMalformedMove is returned by ParseMove when the model output is not a
// JSON object carrying an integer "column".
var ErrMalformedMove = errors.New("malformed move response")

type Prompt struct {
	System string
	User   string
}

// BuildPrompt describes the rules, the board and the playable columns.
func BuildPrompt(board domain.Board, seat domain.Seat, validMoves []int) Prompt {
	columns := formatColumns(validMoves)

	system := fmt.Sprintf(`You are a world-class Connect Four player. Your goal is to win the game. The board is represented as a %dx%d grid, top row first. 0=Empty, 1=Player 1, 2=Player 2. Pieces fall to the lowest empty cell of the chosen column. You are %s and your piece is %d.
The current board state is:
%s
Analyze the board and make the most strategic move. You must choose one of the available columns. The available columns are: [%s].
Return your move as a JSON object with a single key "column". For example: {"column": 3}`,
		domain.Rows, domain.Columns, seat.Label, int(seat.ID), board.String(), columns)

	user := fmt.Sprintf("Based on the system instructions, what is your next move? You must only output a valid JSON object. The available columns are [%s].", columns)

	return Prompt{System: system, User: user}
}

func formatColumns(cols []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}

// ParseMove extracts the column from a model reply such as {"column": 3}.
// Surrounding whitespace and markdown code fences are ignored; extra keys are
// tolerated but "column" must be an integral JSON number. Columns off the board
// are reported as domain.ErrInvalidMove.
func ParseMove(content string) (int, error) {
	content = stripCodeFence(content)
	if content == "" {
		return 0, fmt.Errorf("%w: empty content", ErrMalformedMove)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}

	raw, ok := payload["column"]
	if !ok {
		return 0, fmt.Errorf("%w: missing column", ErrMalformedMove)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}

	number, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: column is not a number", ErrMalformedMove)
	}

	column, err := number.Float64()
	if err != nil || column != math.Trunc(column) {
		return 0, fmt.Errorf("%w: column %s is not an integer", ErrMalformedMove, number)
	}
	if column < 0 || column >= domain.Columns {
		return -1, fmt.Errorf("%w: column %s is off the board", domain.ErrInvalidMove, number)
	}

	return int(column), nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
