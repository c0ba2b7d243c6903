// Where: internal/domain/deployment/environment.go
// What: Container environment map sent with CreateModel.
// Why: The launcher inside the container reads these keys back.
package deployment

import (
	"strconv"

	"github.com/poruru-code/smvllm/internal/constants"
	"github.com/poruru-code/smvllm/internal/meta"
)

// Environment is the container environment configuration. Keys are unique and
// values are stringified scalars.
type Environment map[string]string

// Redacted returns a copy of e with the hub token masked, for display and records.
func (e Environment) Redacted() map[string]string {
	out := make(map[string]string, len(e))
	for key, value := range e {
		if key == constants.EnvHFToken && value != "" {
			value = "********"
		}
		out[key] = value
	}
	return out
}

// BuildEnvironment renders s into the container environment. Optional tuning
// keys are present only when set; boolean keys are "1" when enabled.
func BuildEnvironment(s Spec) Environment {
	env := Environment{
		constants.EnvAPIHost:      meta.DefaultAPIHost,
		constants.EnvAPIPort:      strconv.Itoa(meta.DefaultAPIPort),
		constants.EnvInstanceType: s.InstanceType,
	}

	if s.Model.IsS3() {
		env[constants.EnvModelID] = meta.ModelMountPath
	} else {
		env[constants.EnvModelID] = s.Model.ID
		if s.HubToken != "" {
			env[constants.EnvHFToken] = s.HubToken
		}
	}

	t := s.Tuning
	setInt(env, constants.EnvMaxModelLen, t.MaxModelLen)
	setInt(env, constants.EnvTensorParallelSize, t.TensorParallelSize)
	if t.GPUMemoryUtilization != nil {
		env[constants.EnvGPUMemoryUtilization] = strconv.FormatFloat(*t.GPUMemoryUtilization, 'f', -1, 64)
	}
	setInt(env, constants.EnvSwapSpace, t.SwapSpace)
	setInt(env, constants.EnvMaxNumSeqs, t.MaxNumSeqs)

	setFlag(env, constants.EnvDisableCustomAllReduce, t.DisableCustomAllReduce)
	setFlag(env, constants.EnvEnablePrefixCaching, t.EnablePrefixCaching)
	setFlag(env, constants.EnvDisableSlidingWindow, t.DisableSlidingWindow)
	setFlag(env, constants.EnvEnableChunkedPrefill, t.EnableChunkedPrefill)
	return env
}

func setInt(env Environment, key string, value *int) {
	if value != nil {
		env[key] = strconv.Itoa(*value)
	}
}

func setFlag(env Environment, key string, enabled bool) {
	if enabled {
		env[key] = "1"
	}
}
