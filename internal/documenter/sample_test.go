package documenter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/types"
)

type fakeConnector struct {
	queryDelay time.Duration
	queryErr   error
	connectErr error
	rows       []catalog.Row
}

func (f *fakeConnector) Connect(ctx context.Context, cfg types.DatabaseConfig) error {
	return f.connectErr
}
func (f *fakeConnector) Disconnect() error { return nil }
func (f *fakeConnector) ListTables(ctx context.Context, opts catalog.ListOptions) ([]types.TableMetadata, error) {
	return nil, nil
}
func (f *fakeConnector) GetTableMetadata(ctx context.Context, schema, table string) (types.TableMetadata, error) {
	return types.TableMetadata{Schema: schema, Table: table}, nil
}
func (f *fakeConnector) GetRelationships(ctx context.Context, tables []types.TableRef) ([]types.Relationship, error) {
	return nil, nil
}
func (f *fakeConnector) Query(ctx context.Context, query string, args ...any) ([]catalog.Row, error) {
	if f.queryDelay > 0 {
		select {
		case <-time.After(f.queryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.rows, f.queryErr
}

func TestSampleTableReturnsTruncatedRows(t *testing.T) {
	conn := &fakeConnector{rows: []catalog.Row{{"name": "ok"}}}
	rows, err := sampleTable(context.Background(), conn, "public", "users")
	if err != nil {
		t.Fatalf("sampleTable: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "ok" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestSampleTablePropagatesQueryError(t *testing.T) {
	conn := &fakeConnector{queryErr: errors.New("boom")}
	_, err := sampleTable(context.Background(), conn, "public", "users")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestSampleTableTimesOutOnSlowQuery(t *testing.T) {
	orig := sampleTimeout
	t.Cleanup(func() { sampleTimeout = orig })
	sampleTimeout = 5 * time.Millisecond

	conn := &fakeConnector{queryDelay: 50 * time.Millisecond, rows: []catalog.Row{{"name": "ok"}}}
	_, err := sampleTable(context.Background(), conn, "public", "users")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}
