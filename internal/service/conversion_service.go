package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sql-converter/internal/middleware"
	"sql-converter/internal/model"
	"sql-converter/internal/utils"
	"sql-converter/internal/utils/sql_translator"
)

const serviceName = "sql-converter"

const (
	opConvert    = "convert"
	opParse      = "parse"
	opConvertAll = "convert_batch"
	opParseAll   = "parse_batch"
)

// Translator renders MySQL SQL as Oracle SQL
type Translator interface {
	TranslateMySQLToOracle(sql string, pretty bool) (string, error)
}

// Inspector reports the structure of MySQL SQL
type Inspector interface {
	Inspect(sql string) (*sql_translator.ParsedStructure, error)
}

// ConversionService converts and parses MySQL SQL. Per-item failures are
// reported inside the returned responses; only batch-level limits are
// returned as errors.
type ConversionService interface {
	Convert(ctx context.Context, req model.ConversionRequest) model.ConversionResponse
	ConvertBatch(ctx context.Context, reqs []model.ConversionRequest) ([]model.ConversionResponse, error)
	Parse(ctx context.Context, req model.ParseRequest) model.ParseResponse
	ParseBatch(ctx context.Context, reqs []model.ParseRequest) ([]model.ParseResponse, error)
	Health() model.HealthStatus
}

// Options bounds the work a single request may cause
type Options struct {
	MaxBatchSize  int
	MaxSQLLength  int
	BatchWorkers  int
	DefaultPretty bool
}

type conversionService struct {
	translator Translator
	inspector  Inspector
	validate   *validator.Validate
	opts       Options
	logger     zerolog.Logger
}

// NewConversionService creates a new instance of ConversionService
func NewConversionService(translator Translator, inspector Inspector, opts Options, logger zerolog.Logger) ConversionService {
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = runtime.NumCPU()
	}
	return &conversionService{
		translator: translator,
		inspector:  inspector,
		validate:   newValidator(),
		opts:       opts,
		logger:     logger,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *conversionService) Convert(ctx context.Context, req model.ConversionRequest) (resp model.ConversionResponse) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if r := recover(); r != nil {
			s.loggerFor(ctx).Error().Interface("panic", r).Str("operation", opConvert).Msg("recovered from panic during conversion")
			outcome = "internal_error"
			resp = model.NewConversionFailure(req.MySQLSQL, fmt.Sprintf("internal error: %v", r))
		}
		middleware.RecordConversion(opConvert, outcome, time.Since(start))
	}()

	if err := s.validateSQL(&req, req.MySQLSQL); err != nil {
		outcome = "validation_error"
		return model.NewConversionFailure(req.MySQLSQL, err.Error())
	}

	oracleSQL, err := s.translator.TranslateMySQLToOracle(req.MySQLSQL, req.PrettyOr(s.opts.DefaultPretty))
	if err != nil {
		outcome = classify(err)
		s.loggerFor(ctx).Debug().Err(err).Str("operation", opConvert).Msg("conversion failed")
		return model.NewConversionFailure(req.MySQLSQL, err.Error())
	}

	return model.NewConversionSuccess(req.MySQLSQL, oracleSQL)
}

func (s *conversionService) ConvertBatch(ctx context.Context, reqs []model.ConversionRequest) ([]model.ConversionResponse, error) {
	if err := s.checkBatch(len(reqs)); err != nil {
		return nil, err
	}
	middleware.RecordBatchSize(opConvertAll, len(reqs))

	results := make([]model.ConversionResponse, len(reqs))
	s.forEach(len(reqs), func(i int) {
		results[i] = s.Convert(ctx, reqs[i])
	})
	return results, nil
}

func (s *conversionService) Parse(ctx context.Context, req model.ParseRequest) (resp model.ParseResponse) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if r := recover(); r != nil {
			s.loggerFor(ctx).Error().Interface("panic", r).Str("operation", opParse).Msg("recovered from panic during parse")
			outcome = "internal_error"
			resp = model.NewParseFailure(req.MySQLSQL, fmt.Sprintf("internal error: %v", r))
		}
		middleware.RecordConversion(opParse, outcome, time.Since(start))
	}()

	if err := s.validateSQL(&req, req.MySQLSQL); err != nil {
		outcome = "validation_error"
		return model.NewParseFailure(req.MySQLSQL, err.Error())
	}

	parsed, err := s.inspector.Inspect(req.MySQLSQL)
	if err != nil {
		outcome = classify(err)
		s.loggerFor(ctx).Debug().Err(err).Str("operation", opParse).Msg("parse failed")
		return model.NewParseFailure(req.MySQLSQL, err.Error())
	}

	return model.NewParseSuccess(req.MySQLSQL, parsed)
}

func (s *conversionService) ParseBatch(ctx context.Context, reqs []model.ParseRequest) ([]model.ParseResponse, error) {
	if err := s.checkBatch(len(reqs)); err != nil {
		return nil, err
	}
	middleware.RecordBatchSize(opParseAll, len(reqs))

	results := make([]model.ParseResponse, len(reqs))
	s.forEach(len(reqs), func(i int) {
		results[i] = s.Parse(ctx, reqs[i])
	})
	return results, nil
}

func (s *conversionService) Health() model.HealthStatus {
	return model.HealthStatus{Status: "healthy", Service: serviceName}
}

// forEach runs fn for 0..n-1 on at most BatchWorkers goroutines. fn must
// not panic; Convert and Parse recover their own panics.
func (s *conversionService) forEach(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(s.opts.BatchWorkers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *conversionService) checkBatch(n int) error {
	if s.opts.MaxBatchSize > 0 && n > s.opts.MaxBatchSize {
		return utils.NewPayloadTooLargeError(
			"batch of " + strconv.Itoa(n) + " items exceeds the limit of " + strconv.Itoa(s.opts.MaxBatchSize))
	}
	return nil
}

func (s *conversionService) validateSQL(req interface{}, sql string) error {
	if err := s.validate.Struct(req); err != nil {
		return validationMessage(err)
	}
	if s.opts.MaxSQLLength > 0 && len(sql) > s.opts.MaxSQLLength {
		return &sql_translator.ValidationError{
			Dialect: string(sql_translator.MySQL),
			Message: "mysql_sql exceeds the maximum length of " + strconv.Itoa(s.opts.MaxSQLLength) + " bytes",
		}
	}
	return nil
}

func (s *conversionService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &sql_translator.ValidationError{Dialect: string(sql_translator.MySQL), Message: err.Error()}
	}

	fe := fieldErrs[0]
	msg := fe.Field() + " failed " + fe.Tag() + " validation"
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "notblank":
		msg = fe.Field() + " must not be blank"
	}
	return &sql_translator.ValidationError{Dialect: string(sql_translator.MySQL), Message: msg}
}

func classify(err error) string {
	switch {
	case sql_translator.IsValidationError(err):
		return "validation_error"
	case sql_translator.IsTranslationError(err):
		return "translation_error"
	default:
		return "internal_error"
	}
}
