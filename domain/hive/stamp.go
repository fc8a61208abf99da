package hive

import (
	"fmt"
	"strings"
)

// Stamp identifies a user's most recently created item(s) and authorizes a
// one-shot undo deletion. A linked create (point plus synapse) carries both
// ids. The wire form is "<hiveId>:<itemId>" for a single item and
// "<hiveId>:<pointId>+<hiveId>:<synapseId>" for a pair.
type Stamp struct {
	HiveID    string
	PointID   string
	SynapseID string
}

// ForPoint builds a stamp for a standalone point create.
func ForPoint(hiveID, pointID string) Stamp {
	return Stamp{HiveID: hiveID, PointID: pointID}
}

// ForSynapse builds a stamp for a standalone synapse create.
func ForSynapse(hiveID, synapseID string) Stamp {
	return Stamp{HiveID: hiveID, SynapseID: synapseID}
}

// ForLinked builds a stamp for a linked point-plus-synapse create.
func ForLinked(hiveID, pointID, synapseID string) Stamp {
	return Stamp{HiveID: hiveID, PointID: pointID, SynapseID: synapseID}
}

// Linked reports whether the stamp covers a point and its synapse together.
func (s Stamp) Linked() bool { return s.PointID != "" && s.SynapseID != "" }

// Encode renders the wire form stored on the user record.
func (s Stamp) Encode() string {
	switch {
	case s.Linked():
		return s.HiveID + ":" + s.PointID + "+" + s.HiveID + ":" + s.SynapseID
	case s.PointID != "":
		return s.HiveID + ":" + s.PointID
	case s.SynapseID != "":
		return s.HiveID + ":" + s.SynapseID
	default:
		return ""
	}
}

// DecodeStamp parses the wire form back into its parts. Item kinds are
// recovered from the embedded collection prefixes.
func DecodeStamp(encoded string) (Stamp, error) {
	if encoded == "" {
		return Stamp{}, fmt.Errorf("empty stamp")
	}

	var stamp Stamp
	for _, part := range strings.Split(encoded, "+") {
		hiveID, itemID, err := splitStampPart(part)
		if err != nil {
			return Stamp{}, err
		}
		if stamp.HiveID != "" && stamp.HiveID != hiveID {
			return Stamp{}, fmt.Errorf("stamp %q spans hives", encoded)
		}
		stamp.HiveID = hiveID

		ref, err := ParseItemRef(itemID)
		if err != nil {
			return Stamp{}, fmt.Errorf("stamp %q: %w", encoded, err)
		}
		switch ref.Kind {
		case KindPoint:
			if stamp.PointID != "" {
				return Stamp{}, fmt.Errorf("stamp %q holds two points", encoded)
			}
			stamp.PointID = itemID
		case KindSynapse:
			if stamp.SynapseID != "" {
				return Stamp{}, fmt.Errorf("stamp %q holds two synapses", encoded)
			}
			stamp.SynapseID = itemID
		}
	}
	return stamp, nil
}

// splitStampPart cuts "<hiveId>:<itemId>" where hiveId itself contains a
// slash-separated key but no colon.
func splitStampPart(part string) (hiveID, itemID string, err error) {
	hiveID, itemID, ok := strings.Cut(part, ":")
	if !ok || hiveID == "" || itemID == "" {
		return "", "", fmt.Errorf("malformed stamp segment %q", part)
	}
	return hiveID, itemID, nil
}
