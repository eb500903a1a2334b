package iar

import (
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// Metadata keys written by the acquisition software.
const (
	KeySourceName   = "Source Name"
	KeySourceRA     = "Source RA (hhmmss.s)"
	KeySourceDEC    = "Source DEC (ddmmss.s)"
	KeyReferenceDM  = "Reference DM"
	KeyPulsarPeriod = "Pulsar Period"
	KeyHighestFreq  = "Highest Observation Frequency (MHz)"
	KeyTelescopeID  = "Telescope ID"
	KeyMachineID    = "Machine ID"
	KeyDataType     = "Data Type"
	KeyObservingMin = "Observing Time (minutes)"
	KeyLocalOsc     = "Local Oscillator (MHz)"
	KeyGain         = "Gain (dB)"
	KeyBandwidth    = "Total Bandwith (MHz)"
	KeyAverageData  = "Average Data"
	KeySubBands     = "Sub Bands"
	KeyCal          = "Cal"
)

// DefaultTypes returns a new copy of the metadata type map.
func DefaultTypes() header.TypeMap {
	return header.TypeMap{
		KeySourceName:   codec.TextFormat,
		KeySourceRA:     codec.FloatFormat,
		KeySourceDEC:    codec.FloatFormat,
		KeyReferenceDM:  codec.FloatFormat,
		KeyPulsarPeriod: codec.FloatFormat,
		KeyHighestFreq:  codec.FloatFormat,
		KeyTelescopeID:  codec.IntFormat,
		KeyMachineID:    codec.IntFormat,
		KeyDataType:     codec.IntFormat,
		KeyObservingMin: codec.FloatFormat,
		KeyLocalOsc:     codec.FloatFormat,
		KeyGain:         codec.FloatFormat,
		KeyBandwidth:    codec.FloatFormat,
		KeyAverageData:  codec.IntFormat,
		KeySubBands:     codec.IntFormat,
		KeyCal:          codec.IntFormat,
	}
}
