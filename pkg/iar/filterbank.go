package iar

import (
	"fmt"
	"time"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// ROACH backend constants.
const (
	FFTPoints = 128
	ADCClock  = 200e6 // Hz
)

// FilterbankTypes types the template keys that are not part of the standard
// filterbank map, the extra keys included. Merge it into the write options
// of a converted file.
func FilterbankTypes() header.TypeMap {
	return header.TypeMap{
		"ibeam":          codec.IntFormat,
		"nbeams":         codec.IntFormat,
		"pul_period":     codec.FloatFormat,
		"high_freq":      codec.FloatFormat,
		"observing_time": codec.IntFormat,
		"bandwidth":      codec.IntFormat,
	}
}

// ToFilterbank builds a filterbank header template from observation
// metadata. now stamps the generated rawdatafile name. With extra the
// pulsar period, highest frequency, observing time and bandwidth are added
// before the end sentinel.
func ToFilterbank(meta *header.Header, now time.Time, extra bool) (*header.Header, error) {
	telescope, err := intField(meta, KeyTelescopeID, 0)
	if err != nil {
		return nil, err
	}
	machine, err := intField(meta, KeyMachineID, 0)
	if err != nil {
		return nil, err
	}
	dataType, err := intField(meta, KeyDataType, 1)
	if err != nil {
		return nil, err
	}
	avg, err := intField(meta, KeyAverageData, 0)
	if err != nil {
		return nil, err
	}
	subBands, err := intField(meta, KeySubBands, 0)
	if err != nil {
		return nil, err
	}

	source := "None"
	if v, ok := meta.Get(KeySourceName); ok && !v.IsNull() {
		source = v.String()
	}

	tsamp := float64(avg) * FFTPoints / ADCClock
	foff := ADCClock / FFTPoints * 1e-6
	name := fmt.Sprintf("ds%d_%s%s.fil", avg, source, now.Format("_20060102_150405"))

	entries := []header.Entry{
		{Key: header.StartKey},
		{Key: "telescope_id", Value: codec.Int(telescope)},
		{Key: "machine_id", Value: codec.Int(machine)},
		{Key: "data_type", Value: codec.Int(dataType)},
		{Key: "rawdatafile", Value: codec.Text(name)},
		{Key: "source_name", Value: codec.Text(source)},
		{Key: "az_start", Value: codec.Float(0)},
		{Key: "za_start", Value: codec.Float(0)},
		{Key: "src_raj", Value: floatField(meta, KeySourceRA)},
		{Key: "src_dej", Value: floatField(meta, KeySourceDEC)},
		{Key: "tstart", Value: codec.Float(0)},
		{Key: "tsamp", Value: codec.Float(tsamp)},
		{Key: "fch1", Value: codec.Float(0)},
		{Key: "foff", Value: codec.Float(foff)},
		{Key: "nchans", Value: codec.Int(subBands)},
		{Key: "nifs", Value: codec.Int(1)},
		{Key: "ibeam", Value: codec.Int(1)},
		{Key: "nbeams", Value: codec.Int(1)},
		{Key: "refdm", Value: floatField(meta, KeyReferenceDM)},
	}

	if extra {
		observing, err := intField(meta, KeyObservingMin, 0)
		if err != nil {
			return nil, err
		}
		bandwidth, err := intField(meta, KeyBandwidth, 0)
		if err != nil {
			return nil, err
		}
		entries = append(entries,
			header.Entry{Key: "pul_period", Value: floatField(meta, KeyPulsarPeriod)},
			header.Entry{Key: "high_freq", Value: floatField(meta, KeyHighestFreq)},
			header.Entry{Key: "observing_time", Value: codec.Int(observing)},
			header.Entry{Key: "bandwidth", Value: codec.Int(bandwidth)},
		)
	}

	return header.New(append(entries, header.Entry{Key: header.EndKey})...), nil
}

func intField(meta *header.Header, key string, def int64) (int64, error) {
	v, ok := meta.Get(key)
	if !ok || v.IsNull() {
		return def, nil
	}
	if v.Kind() == codec.KindText {
		return 0, fmt.Errorf("iar: %q is %q, want an integer", key, v.Text())
	}
	return v.Int(), nil
}

// numeric fields keep their value as a float; text is passed through
func floatField(meta *header.Header, key string) codec.Value {
	v, ok := meta.Get(key)
	if !ok || v.IsNull() {
		return codec.Float(0)
	}
	if v.Kind() == codec.KindInteger {
		return codec.Float(v.Float())
	}
	return v
}
