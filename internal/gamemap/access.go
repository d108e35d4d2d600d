package gamemap

// Access masks. A tile whose mask is non-zero needs the matching key.
const (
	AccessYellow uint16 = 0x100
	AccessGreen  uint16 = 0x200
	AccessBlue   uint16 = 0x400
	AccessRed    uint16 = 0x800
)

// KeyCount is the number of distinct key colours.
const KeyCount = 4

// AccessMask returns the mask unlocked by key k (0 = yellow).
func AccessMask(k int) uint16 {
	if k < 0 || k >= KeyCount {
		return 0
	}
	return AccessYellow << k
}

// KeyIndex returns the key index for a single-colour mask, or -1.
func KeyIndex(mask uint16) int {
	for k := range KeyCount {
		if mask == AccessMask(k) {
			return k
		}
	}
	return -1
}

// KeyName returns the colour name of key k.
func KeyName(k int) string {
	switch k {
	case 0:
		return "yellow"
	case 1:
		return "green"
	case 2:
		return "blue"
	case 3:
		return "red"
	}
	return "none"
}

// Key is a placed key card.
type Key struct {
	Pos   Point
	Index int
}

// Mask returns the access mask this key unlocks.
func (k Key) Mask() uint16 { return AccessMask(k.Index) }
