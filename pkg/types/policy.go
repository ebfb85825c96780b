package types

// Policy drives rule derivation.
type Policy struct {
	// Architectures is the fallback order probed after an entry's own architecture.
	Architectures []string
	// ChannelPriority is the order in which destination channels are tried.
	ChannelPriority []string
	// MoveDebugPackages relocates debuginfo/debugsource packages out of the all layout.
	MoveDebugPackages bool

	// Path segment markers, normalized to the "/name/" form.
	AllDirMarker   string
	OSDirMarker    string
	DebugDirMarker string

	// Replacements maps a source channel to the channel name used in output paths.
	Replacements map[string]string

	// CustomRulesFile, when set, points at additional link rules.
	CustomRulesFile string
}

// ReplaceChannel returns the substitute for channel, or channel itself.
func (p Policy) ReplaceChannel(channel string) string {
	if r, ok := p.Replacements[channel]; ok && r != "" {
		return r
	}
	return channel
}
