package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"burst-engine/src/engine"
)

// Parser streams typed messages out of a LOBSTER message CSV. Each line
// carries six comma-separated fields: time, type, order_id, size, price,
// direction. Lines that fail to decode are skipped and counted; the core
// never sees a malformed message.
type Parser struct {
	file    *os.File
	reader  *csv.Reader
	log     zerolog.Logger
	skipped int
}

func Open(path string, log zerolog.Logger) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open message file %s: %w", path, err)
	}
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // some LOBSTER dumps carry a trailing column
	reader.ReuseRecord = true
	return &Parser{file: file, reader: reader, log: log}, nil
}

// Next returns the next well-formed message, or ok=false at end of input.
func (p *Parser) Next() (engine.Message, bool) {
	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return engine.Message{}, false
		}
		if err != nil {
			p.skip("unreadable line", err)
			continue
		}
		msg, err := decode(record)
		if err != nil {
			p.skip("malformed line", err)
			continue
		}
		return msg, true
	}
}

func decode(record []string) (engine.Message, error) {
	if len(record) < 6 {
		return engine.Message{}, fmt.Errorf("want 6 fields, got %d", len(record))
	}
	time, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return engine.Message{}, fmt.Errorf("time: %w", err)
	}
	kind, err := strconv.Atoi(record[1])
	if err != nil {
		return engine.Message{}, fmt.Errorf("type: %w", err)
	}
	if kind < int(engine.KindSubmission) || kind > int(engine.KindHalt) {
		return engine.Message{}, fmt.Errorf("unknown event type %d", kind)
	}
	orderID, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return engine.Message{}, fmt.Errorf("order_id: %w", err)
	}
	size, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return engine.Message{}, fmt.Errorf("size: %w", err)
	}
	price, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return engine.Message{}, fmt.Errorf("price: %w", err)
	}
	direction, err := strconv.Atoi(record[5])
	if err != nil {
		return engine.Message{}, fmt.Errorf("direction: %w", err)
	}

	side := engine.SideSell
	if direction == 1 {
		side = engine.SideBuy
	}

	return engine.Message{
		Time:    time,
		Kind:    engine.MessageKind(kind),
		OrderID: orderID,
		Size:    size,
		Price:   price,
		Side:    side,
	}, nil
}

func (p *Parser) skip(reason string, err error) {
	p.skipped++
	p.log.Warn().Err(err).Str("reason", reason).Msg("Skipping message line")
}

// Skipped reports how many input lines were dropped as malformed.
func (p *Parser) Skipped() int {
	return p.skipped
}

func (p *Parser) Close() error {
	return p.file.Close()
}
