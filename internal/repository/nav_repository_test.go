package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"FundLens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() *models.NavSnapshot {
	return &models.NavSnapshot{
		Meta:      models.FundMeta{SchemeCode: 120503, SchemeName: "Axis ELSS Tax Saver Fund"},
		FetchedAt: 1718323200,
		Records: []models.NavRecord{
			{SchemeCode: 120503, Date: "2024-06-13", NAV: 94.87},
			{SchemeCode: 120503, Date: "2024-06-14", NAV: 95.1234},
			{SchemeCode: 0, Date: "2024-06-15", NAV: 1},
		},
	}
}

func TestNavHistorySchema(t *testing.T) {
	stmts := NavHistorySchema("fundlens", "nav_history")
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS fundlens", stmts[0])
	assert.Contains(t, stmts[1], "fundlens.nav_history")
	assert.Contains(t, stmts[1], "ReplacingMergeTree(fetched_at)")
	assert.Contains(t, stmts[1], "ORDER BY (scheme_code, date)")
}

func TestBuildNavInsert(t *testing.T) {
	snap := snapshot()
	q, args := buildNavInsert("fundlens.nav_history", snap, snap.Records)

	assert.True(t, strings.HasPrefix(q, "INSERT INTO fundlens.nav_history (scheme_code, scheme_name, date, nav, fetched_at) VALUES "))
	assert.Equal(t, 2, strings.Count(q, "(?, ?, ?, ?, ?)"))
	require.Len(t, args, 10)
	assert.Equal(t, uint32(120503), args[0])
	assert.Equal(t, "Axis ELSS Tax Saver Fund", args[1])
	assert.Equal(t, "2024-06-13", args[2])
	assert.Equal(t, 95.1234, args[8])

	q, args = buildNavInsert("t", snap, nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}

type fakeProducer struct {
	topic  string
	key    []byte
	value  []byte
	err    error
	closed bool
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	if f.err != nil {
		return f.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.topic, f.key, f.value = topic, key, b
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaNavPublisher(t *testing.T) {
	fp := &fakeProducer{}
	pub := NewKafkaNavPublisher(fp, "fundlens.nav")
	assert.Equal(t, "kafka", pub.Name())

	require.NoError(t, pub.Archive(context.Background(), snapshot()))
	assert.Equal(t, "fundlens.nav", fp.topic)
	assert.Equal(t, "120503", string(fp.key))

	var got models.NavSnapshot
	require.NoError(t, json.Unmarshal(fp.value, &got))
	assert.Equal(t, 120503, got.Meta.SchemeCode)
	assert.Len(t, got.Records, 3)

	require.NoError(t, pub.Close())
	assert.True(t, fp.closed)
}

func TestKafkaNavPublisherError(t *testing.T) {
	boom := errors.New("broker down")
	pub := NewKafkaNavPublisher(&fakeProducer{err: boom}, "t")
	assert.ErrorIs(t, pub.Archive(context.Background(), snapshot()), boom)
}
