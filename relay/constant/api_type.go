package constant

const (
	APITypeStability = iota
	APITypeMeshy

	APITypeDummy // this one is only for count, do not add any channel after this
)

const (
	RelayModeUnknown = iota
	RelayModeImageGeneration
	RelayModeModelGeneration
)

func Path2RelayMode(path string) int {
	switch path {
	case "/generate-2d":
		return RelayModeImageGeneration
	case "/generate-3d":
		return RelayModeModelGeneration
	}
	return RelayModeUnknown
}

// RelayMode2APIType maps a relay mode onto the provider that serves it.
func RelayMode2APIType(relayMode int) int {
	if relayMode == RelayModeModelGeneration {
		return APITypeMeshy
	}
	return APITypeStability
}
