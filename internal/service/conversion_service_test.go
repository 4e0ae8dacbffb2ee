package service

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sql-converter/internal/model"
	"sql-converter/internal/utils"
	"sql-converter/internal/utils/sql_translator"
)

type fakeTranslator struct {
	calls      atomic.Int32
	lastPretty atomic.Bool
}

// TranslateMySQLToOracle fails on "BAD", panics on "PANIC" and upper-cases everything else.
func (f *fakeTranslator) TranslateMySQLToOracle(sql string, pretty bool) (string, error) {
	f.calls.Add(1)
	f.lastPretty.Store(pretty)
	switch {
	case strings.Contains(sql, "PANIC"):
		panic("translator exploded")
	case strings.Contains(sql, "BAD"):
		return "", &sql_translator.TranslationError{SourceDialect: "mysql", TargetDialect: "oracle", Message: "cannot parse"}
	case strings.Contains(sql, "WEIRD"):
		return "", errors.New("weird failure")
	}
	return strings.ToUpper(sql), nil
}

type fakeInspector struct{}

func (fakeInspector) Inspect(sql string) (*sql_translator.ParsedStructure, error) {
	if strings.Contains(sql, "BAD") {
		return nil, &sql_translator.TranslationError{SourceDialect: "mysql", Message: "cannot parse"}
	}
	if strings.Contains(sql, "PANIC") {
		panic("inspector exploded")
	}
	return &sql_translator.ParsedStructure{
		StatementCount: 1,
		Statements:     []sql_translator.StatementInfo{{Type: "Select", SQL: sql, Tables: []string{"t"}, Columns: []string{}}},
	}, nil
}

func newTestService(opts Options) (ConversionService, *fakeTranslator) {
	tr := &fakeTranslator{}
	return NewConversionService(tr, fakeInspector{}, opts, zerolog.Nop()), tr
}

func boolPtr(b bool) *bool { return &b }

func assertConversionInvariant(t *testing.T, resp model.ConversionResponse) {
	t.Helper()
	if resp.Success {
		assert.NotNil(t, resp.OracleSQL)
		assert.Nil(t, resp.ErrorMessage)
	} else {
		assert.Nil(t, resp.OracleSQL)
		require.NotNil(t, resp.ErrorMessage)
		assert.NotEmpty(t, *resp.ErrorMessage)
	}
}

func TestConvert(t *testing.T) {
	svc, tr := newTestService(Options{MaxSQLLength: 64, DefaultPretty: true})

	tests := []struct {
		name        string
		sql         string
		wantSuccess bool
		wantOutput  string
		wantMessage string
	}{
		{name: "valid", sql: "select * from users where age > 18", wantSuccess: true, wantOutput: "SELECT * FROM USERS WHERE AGE > 18"},
		{name: "empty", sql: "", wantMessage: "mysql_sql is required"},
		{name: "blank", sql: "   \n", wantMessage: "mysql_sql must not be blank"},
		{name: "too long", sql: "select " + strings.Repeat("x", 64), wantMessage: "exceeds the maximum length of 64 bytes"},
		{name: "translator rejects", sql: "BAD sql", wantMessage: "cannot parse"},
		{name: "unknown error", sql: "WEIRD sql", wantMessage: "weird failure"},
		{name: "panic is recovered", sql: "PANIC", wantMessage: "internal error: translator exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.Convert(context.Background(), model.ConversionRequest{MySQLSQL: tt.sql})

			assert.Equal(t, tt.sql, resp.MySQLSQL)
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assertConversionInvariant(t, resp)
			if tt.wantSuccess {
				assert.Equal(t, tt.wantOutput, *resp.OracleSQL)
			} else {
				assert.Contains(t, *resp.ErrorMessage, tt.wantMessage)
			}
		})
	}

	// empty, blank and oversized inputs never reach the translator
	assert.Equal(t, int32(4), tr.calls.Load())
}

func TestConvert_PrettyFlag(t *testing.T) {
	svc, tr := newTestService(Options{DefaultPretty: true})

	svc.Convert(context.Background(), model.ConversionRequest{MySQLSQL: "select 1"})
	assert.True(t, tr.lastPretty.Load())

	svc.Convert(context.Background(), model.ConversionRequest{MySQLSQL: "select 1", Pretty: boolPtr(false)})
	assert.False(t, tr.lastPretty.Load())

	svc, tr = newTestService(Options{DefaultPretty: false})
	svc.Convert(context.Background(), model.ConversionRequest{MySQLSQL: "select 1"})
	assert.False(t, tr.lastPretty.Load())
}

func TestConvertBatch(t *testing.T) {
	svc, _ := newTestService(Options{BatchWorkers: 3, MaxBatchSize: 100})

	reqs := []model.ConversionRequest{
		{MySQLSQL: "select 1"},
		{MySQLSQL: ""},
		{MySQLSQL: "BAD"},
		{MySQLSQL: "PANIC"},
		{MySQLSQL: "select 2"},
	}
	for i := 0; i < 20; i++ {
		reqs = append(reqs, model.ConversionRequest{MySQLSQL: "select " + strconv.Itoa(i)})
	}

	results, err := svc.ConvertBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	for i, resp := range results {
		assert.Equal(t, reqs[i].MySQLSQL, resp.MySQLSQL, "item %d", i)
		assertConversionInvariant(t, resp)
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.False(t, results[3].Success)
	assert.True(t, results[4].Success)
	assert.Equal(t, "SELECT 19", *results[len(results)-1].OracleSQL)
}

func TestConvertBatch_Empty(t *testing.T) {
	svc, _ := newTestService(Options{MaxBatchSize: 10})

	results, err := svc.ConvertBatch(context.Background(), []model.ConversionRequest{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestConvertBatch_TooLarge(t *testing.T) {
	svc, tr := newTestService(Options{MaxBatchSize: 2})

	_, err := svc.ConvertBatch(context.Background(), make([]model.ConversionRequest, 3))
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodePayloadTooLarge, appErr.Code)
	assert.Zero(t, tr.calls.Load())

	_, err = svc.ParseBatch(context.Background(), make([]model.ParseRequest, 3))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodePayloadTooLarge, appErr.Code)
}

func TestParse(t *testing.T) {
	svc, _ := newTestService(Options{})

	resp := svc.Parse(context.Background(), model.ParseRequest{MySQLSQL: "SELECT a FROM t"})
	assert.True(t, resp.Success)
	require.NotNil(t, resp.ParsedStructure)
	assert.Equal(t, 1, resp.ParsedStructure.StatementCount)
	assert.Nil(t, resp.ErrorMessage)

	for _, sql := range []string{"", "BAD", "PANIC"} {
		resp = svc.Parse(context.Background(), model.ParseRequest{MySQLSQL: sql})
		assert.False(t, resp.Success, sql)
		assert.Nil(t, resp.ParsedStructure, sql)
		require.NotNil(t, resp.ErrorMessage, sql)
	}
}

func TestParseBatch(t *testing.T) {
	svc, _ := newTestService(Options{BatchWorkers: 2})

	reqs := []model.ParseRequest{{MySQLSQL: "SELECT 1"}, {MySQLSQL: ""}, {MySQLSQL: "SELECT 2"}}
	results, err := svc.ParseBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)
	assert.Equal(t, "SELECT 2", results[2].MySQLSQL)
}

func TestHealth(t *testing.T) {
	svc, _ := newTestService(Options{})
	assert.Equal(t, model.HealthStatus{Status: "healthy", Service: "sql-converter"}, svc.Health())
}

func TestConvert_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctxLogger := zerolog.New(&buf).With().Str("correlation_id", "abc").Logger()
	ctx := ctxLogger.WithContext(context.Background())

	svc, _ := newTestService(Options{})
	svc.Convert(ctx, model.ConversionRequest{MySQLSQL: "BAD"})

	assert.Contains(t, buf.String(), "conversion failed")
	assert.Contains(t, buf.String(), `"correlation_id":"abc"`)
}

func TestConvert_WithOracleTranslator(t *testing.T) {
	oracle := sql_translator.NewOracleTranslator()
	svc := NewConversionService(sql_translator.NewSQLTranslationManager(oracle), oracle,
		Options{MaxBatchSize: 10, MaxSQLLength: 1 << 10}, zerolog.Nop())

	results, err := svc.ConvertBatch(context.Background(), []model.ConversionRequest{
		{MySQLSQL: "SELECT 1"},
		{MySQLSQL: ""},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "SELECT 1 FROM DUAL", *results[0].OracleSQL)
	assert.False(t, results[1].Success)

	parsed := svc.Parse(context.Background(), model.ParseRequest{MySQLSQL: "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id"})
	require.True(t, parsed.Success)
	assert.ElementsMatch(t, []string{"t1", "t2"}, parsed.ParsedStructure.Statements[0].Tables)
}
