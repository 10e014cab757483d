package storepath

import (
	"time"

	"github.com/goliatone/go-storepath/pkg/activity"
	"github.com/goliatone/go-storepath/pkg/query"
)

// Option configures an Accessor.
type Option func(*accessorConfig)

// RemoveResult selects what Remove resolves with.
type RemoveResult int

const (
	// RemoveResultCompat resolves a flat remove with the caller's returnValue
	// and a nested remove with the mutated root object.
	RemoveResultCompat RemoveResult = iota
	// RemoveResultPassthrough resolves every remove with returnValue.
	RemoveResultPassthrough
)

type accessorConfig struct {
	delimiter           Delimiter
	createIntermediates bool
	removeResult        RemoveResult
	legacyFalsy         bool
	optimistic          bool
	logger              AccessLogger
	activityHooks       activity.Hooks
	activityConfig      activity.Config
	evaluator           query.Evaluator
	programCache        query.ProgramCache
	functions           *query.FunctionRegistry
	now                 func() time.Time
}

func applyOptions(opts []Option) accessorConfig {
	cfg := accessorConfig{
		delimiter:           DelimiterAuto,
		createIntermediates: true,
		removeResult:        RemoveResultCompat,
		logger:              noopAccessLogger{},
		activityConfig:      activity.Config{Enabled: true},
		now:                 time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDelimiter fixes the path delimiter instead of detecting it per call.
func WithDelimiter(d Delimiter) Option {
	return func(cfg *accessorConfig) {
		cfg.delimiter = d
	}
}

// WithCreateIntermediates controls whether Set and Merge create missing
// intermediate objects. Enabled by default; when disabled a missing
// intermediate fails with ReasonUndefined.
func WithCreateIntermediates(enabled bool) Option {
	return func(cfg *accessorConfig) {
		cfg.createIntermediates = enabled
	}
}

// WithRemoveResult selects the value Remove resolves with.
func WithRemoveResult(mode RemoveResult) Option {
	return func(cfg *accessorConfig) {
		cfg.removeResult = mode
	}
}

// WithLegacyFalsyDefaults makes flat reads substitute the default for every
// falsy stored value (false, 0, "", null) rather than only for absent or null.
func WithLegacyFalsyDefaults() Option {
	return func(cfg *accessorConfig) {
		cfg.legacyFalsy = true
	}
}

// WithOptimisticWrites makes read-modify-write operations conditional on the
// version read. The backend must implement kv.VersionedBackend. A lost race
// fails with kv.ErrVersionConflict and is not retried.
func WithOptimisticWrites() Option {
	return func(cfg *accessorConfig) {
		cfg.optimistic = true
	}
}

// WithActivityHooks adds activity hooks notified after every successful
// mutation. Repeated calls accumulate; nil entries are dropped by the emitter.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *accessorConfig) {
		cfg.activityHooks = append(cfg.activityHooks, hooks...)
	}
}

// WithActivityConfig overrides the emitter configuration (enabled flag and
// channel).
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *accessorConfig) {
		cfg.activityConfig = config
	}
}

// WithEvaluator configures the evaluator used by Evaluate. The default is an
// expr-lang evaluator sharing the configured cache and functions.
func WithEvaluator(e query.Evaluator) Option {
	return func(cfg *accessorConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a program cache for the default evaluator.
func WithProgramCache(cache query.ProgramCache) Option {
	return func(cfg *accessorConfig) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry applies registry to the default evaluator.
func WithFunctionRegistry(registry *query.FunctionRegistry) Option {
	return func(cfg *accessorConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
func WithCustomFunction(name string, fn query.Function) Option {
	return func(cfg *accessorConfig) {
		if cfg.functions == nil {
			cfg.functions = query.NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithClock overrides the time source for activity timestamps and the now
// binding of Evaluate.
func WithClock(now func() time.Time) Option {
	return func(cfg *accessorConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}
