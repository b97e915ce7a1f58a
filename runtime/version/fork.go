// Package version keeps track of the consensus fork versions the processing
// code dispatches on.
package version

const (
	Phase0 = iota
	Altair
	Bellatrix
	Capella
	Deneb
	Electra
	Gloas
)

func String(version int) string {
	switch version {
	case Phase0:
		return "phase0"
	case Altair:
		return "altair"
	case Bellatrix:
		return "bellatrix"
	case Capella:
		return "capella"
	case Deneb:
		return "deneb"
	case Electra:
		return "electra"
	case Gloas:
		return "gloas"
	default:
		return "unknown version"
	}
}
