package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/umatomo/predict-api/internal/platform/logging"
)

const (
	logMirrorScope = "predict-api/internal/platform/logging"
	healthPath     = "/healthz"

	// mirrorValueBudget bounds how far nested values are walked before
	// falling back to their string form.
	mirrorValueBudget = 3
)

// newUptraceLogMirror returns a logging.MirrorFunc that re-emits every zap
// record through the global OpenTelemetry log provider, so application logs
// land next to their traces in Uptrace.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	emitter := otelglobal.Logger(
		logMirrorScope,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isHealthProbeLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := mirrorSeverity(level)
		if !emitter.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var rec otellog.Record
		rec.SetTimestamp(now)
		rec.SetObservedTimestamp(now)
		rec.SetSeverity(severity)
		rec.SetSeverityText(strings.ToUpper(level.String()))
		rec.SetEventName(msg)
		rec.SetBody(otellog.StringValue(msg))
		if attrs := mirrorAttrs(args); len(attrs) > 0 {
			rec.AddAttributes(attrs...)
		}

		emitter.Emit(ctx, rec)
	}
}

// isHealthProbeLog reports whether the record is an access log for the
// liveness endpoint. Probes fire every few seconds and would drown the
// log backend.
func isHealthProbeLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); !ok || key != "path" {
			continue
		}
		path, ok := args[i+1].(string)
		return ok && path == healthPath
	}
	return false
}

// mirrorAttrs converts alternating key/value args into OTel attributes.
// A missing trailing value becomes an empty attribute and a non-string
// key falls back to a positional name.
func mirrorAttrs(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprintf("arg_%d", i/2)
		if s, ok := args[i].(string); ok && strings.TrimSpace(s) != "" {
			key = s
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: mirrorValue(args[i+1], mirrorValueBudget)})
	}
	return attrs
}

func mirrorSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

// mirrorValue maps a Go value onto the OTel log value model. budget is the
// remaining nesting depth; once spent, values are stringified.
func mirrorValue(value any, budget int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if budget <= 0 {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int8:
		return otellog.Int64Value(int64(v))
	case int16:
		return otellog.Int64Value(int64(v))
	case int32:
		return otellog.Int64Value(int64(v))
	case int64:
		return otellog.Int64Value(v)
	case uint:
		return unsignedValue(uint64(v))
	case uint8:
		return otellog.Int64Value(int64(v))
	case uint16:
		return otellog.Int64Value(int64(v))
	case uint32:
		return otellog.Int64Value(int64(v))
	case uint64:
		return unsignedValue(v)
	case float32:
		return otellog.Float64Value(float64(v))
	case float64:
		return otellog.Float64Value(v)
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	return reflectedValue(reflect.ValueOf(value), budget)
}

// unsignedValue keeps unsigned integers numeric unless they overflow int64.
func unsignedValue(v uint64) otellog.Value {
	if v > math.MaxInt64 {
		return otellog.StringValue(fmt.Sprint(v))
	}
	return otellog.Int64Value(int64(v))
}

func reflectedValue(rv reflect.Value, budget int) otellog.Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return mirrorValue(rv.Elem().Interface(), budget-1)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return otellog.BytesValue(out)
		}
		items := make([]otellog.Value, rv.Len())
		for i := range items {
			items[i] = mirrorValue(rv.Index(i).Interface(), budget-1)
		}
		return otellog.SliceValue(items...)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return otellog.StringValue(fmt.Sprint(rv.Interface()))
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		kvs := make([]otellog.KeyValue, 0, len(keys))
		for _, key := range keys {
			kvs = append(kvs, otellog.KeyValue{
				Key:   key.String(),
				Value: mirrorValue(rv.MapIndex(key).Interface(), budget-1),
			})
		}
		return otellog.MapValue(kvs...)

	default:
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}
}
