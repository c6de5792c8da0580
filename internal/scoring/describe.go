package scoring

// Source kinds reported by Describe
const (
	SourceArtifact    = "artifact"
	SourceRemote      = "remote"
	SourceUnavailable = "unavailable"
	SourceCustom      = "custom"
)

// ModelInfo is the public description of a loaded target.
type ModelInfo struct {
	Target    string `json:"target"`
	Source    string `json:"source"`
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	URL       string `json:"url,omitempty"`
	LogTarget bool   `json:"log_target"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Describe reports where t's predictor comes from.
func Describe(t Target) ModelInfo {
	info := ModelInfo{
		Target:    t.Name,
		LogTarget: t.LogTarget,
		Available: IsAvailable(t.Predictor),
	}

	switch p := t.Predictor.(type) {
	case *LinearModel:
		info.Source = SourceArtifact
		info.Name = p.Name()
		info.Version = p.Version()
	case *RemotePredictor:
		info.Source = SourceRemote
		info.URL = p.URL()
	case Unavailable:
		info.Source = SourceUnavailable
		if p.Reason != nil {
			info.Reason = p.Reason.Error()
		}
	default:
		info.Source = SourceCustom
	}
	return info
}
