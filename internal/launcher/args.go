// Where: internal/launcher/args.go
// What: vLLM server argument object built from the container environment.
// Why: SageMaker only passes configuration through environment variables.
package launcher

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/infra/envutil"
	"github.com/poruru-code/smvllm/internal/meta"
	"github.com/rs/zerolog"
)

var ErrModelNotConfigured = errors.New("neither MODEL_ID nor SM_MODEL_DIR is set")

// ServeArgs is the launcher's view of the server command line. Nil numeric
// fields keep the engine default and are not rendered.
type ServeArgs struct {
	Model string
	Host  string
	Port  int

	MaxModelLen          *int
	TensorParallelSize   *int
	GPUMemoryUtilization *float64
	SwapSpace            *int
	MaxNumSeqs           *int

	DisableCustomAllReduce bool
	EnablePrefixCaching    bool
	DisableSlidingWindow   bool
	EnableChunkedPrefill   bool

	// Extra is appended verbatim after the generated flags.
	Extra []string
}

// DefaultServeArgs returns the argument object before any override.
func DefaultServeArgs() ServeArgs {
	return ServeArgs{
		Host: meta.DefaultAPIHost,
		Port: meta.DefaultAPIPort,
	}
}

// FromEnv applies the environment overrides on top of the defaults. Every
// malformed value is reported; a missing model is reported alone.
func FromEnv(env envutil.Lookup, extra []string) (ServeArgs, error) {
	args := DefaultServeArgs()
	args.Extra = append([]string(nil), extra...)

	args.Model = env.Value(constants.EnvModelID)
	if args.Model == "" {
		args.Model = env.Value(constants.EnvSageMakerDir)
	}
	if args.Model == "" {
		return args, ErrModelNotConfigured
	}
	args.Host = env.String(constants.EnvAPIHost, meta.DefaultAPIHost)

	var errs []error
	if port, ok, err := env.Int(constants.EnvAPIPort); err != nil {
		errs = append(errs, err)
	} else if ok {
		args.Port = port
	}
	for _, item := range []struct {
		key    string
		target **int
	}{
		{constants.EnvMaxModelLen, &args.MaxModelLen},
		{constants.EnvTensorParallelSize, &args.TensorParallelSize},
		{constants.EnvSwapSpace, &args.SwapSpace},
		{constants.EnvMaxNumSeqs, &args.MaxNumSeqs},
	} {
		value, ok, err := env.Int(item.key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			*item.target = &value
		}
	}
	if value, ok, err := env.Float(constants.EnvGPUMemoryUtilization); err != nil {
		errs = append(errs, err)
	} else if ok {
		args.GPUMemoryUtilization = &value
	}

	args.DisableCustomAllReduce = env.Flag(constants.EnvDisableCustomAllReduce)
	args.EnablePrefixCaching = env.Flag(constants.EnvEnablePrefixCaching)
	args.DisableSlidingWindow = env.Flag(constants.EnvDisableSlidingWindow)
	args.EnableChunkedPrefill = env.Flag(constants.EnvEnableChunkedPrefill)

	return args, errors.Join(errs...)
}

// Validate checks the ranges the server would reject at startup.
func (a ServeArgs) Validate() error {
	var errs []error
	if a.Model == "" {
		errs = append(errs, ErrModelNotConfigured)
	}
	if a.Port < 1 || a.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in 1..65535, got %d", a.Port))
	}
	if a.TensorParallelSize != nil && *a.TensorParallelSize < 1 {
		errs = append(errs, fmt.Errorf("tensor parallel size must be >= 1, got %d", *a.TensorParallelSize))
	}
	if a.GPUMemoryUtilization != nil && (*a.GPUMemoryUtilization <= 0 || *a.GPUMemoryUtilization > 1) {
		errs = append(errs, fmt.Errorf("gpu memory utilization must be in (0, 1], got %v", *a.GPUMemoryUtilization))
	}
	if a.MaxModelLen != nil && *a.MaxModelLen < 1 {
		errs = append(errs, fmt.Errorf("max model len must be >= 1, got %d", *a.MaxModelLen))
	}
	if a.SwapSpace != nil && *a.SwapSpace < 0 {
		errs = append(errs, fmt.Errorf("swap space must be >= 0, got %d", *a.SwapSpace))
	}
	if a.MaxNumSeqs != nil && *a.MaxNumSeqs < 1 {
		errs = append(errs, fmt.Errorf("max num seqs must be >= 1, got %d", *a.MaxNumSeqs))
	}
	return errors.Join(errs...)
}

// Argv renders the server command line: bin serve <model> --host .. --port .. [flags] [extra].
func (a ServeArgs) Argv(bin string) []string {
	if bin == "" {
		bin = meta.DefaultServerBin
	}
	argv := []string{bin, "serve", a.Model, "--host", a.Host, "--port", strconv.Itoa(a.Port)}
	if a.MaxModelLen != nil {
		argv = append(argv, "--max-model-len", strconv.Itoa(*a.MaxModelLen))
	}
	if a.TensorParallelSize != nil {
		argv = append(argv, "--tensor-parallel-size", strconv.Itoa(*a.TensorParallelSize))
	}
	if a.GPUMemoryUtilization != nil {
		argv = append(argv, "--gpu-memory-utilization", strconv.FormatFloat(*a.GPUMemoryUtilization, 'f', -1, 64))
	}
	if a.SwapSpace != nil {
		argv = append(argv, "--swap-space", strconv.Itoa(*a.SwapSpace))
	}
	if a.MaxNumSeqs != nil {
		argv = append(argv, "--max-num-seqs", strconv.Itoa(*a.MaxNumSeqs))
	}
	if a.DisableCustomAllReduce {
		argv = append(argv, "--disable-custom-all-reduce")
	}
	if a.EnablePrefixCaching {
		argv = append(argv, "--enable-prefix-caching")
	}
	if a.DisableSlidingWindow {
		argv = append(argv, "--disable-sliding-window")
	}
	if a.EnableChunkedPrefill {
		argv = append(argv, "--enable-chunked-prefill")
	}
	return append(argv, a.Extra...)
}

// LogSummary writes the effective configuration as one structured event.
func (a ServeArgs) LogSummary(log zerolog.Logger) {
	log.Info().
		Str("model", a.Model).
		Str("host", a.Host).
		Int("port", a.Port).
		Str("max_model_len", intOrDefault(a.MaxModelLen)).
		Str("tensor_parallel_size", intOrDefault(a.TensorParallelSize)).
		Str("gpu_memory_utilization", floatOrDefault(a.GPUMemoryUtilization)).
		Str("swap_space", intOrDefault(a.SwapSpace)).
		Str("max_num_seqs", intOrDefault(a.MaxNumSeqs)).
		Bool("disable_custom_all_reduce", a.DisableCustomAllReduce).
		Bool("enable_prefix_caching", a.EnablePrefixCaching).
		Bool("disable_sliding_window", a.DisableSlidingWindow).
		Bool("enable_chunked_prefill", a.EnableChunkedPrefill).
		Msg("starting vllm server")
}

func intOrDefault(v *int) string {
	if v == nil {
		return "default"
	}
	return strconv.Itoa(*v)
}

func floatOrDefault(v *float64) string {
	if v == nil {
		return "default"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
