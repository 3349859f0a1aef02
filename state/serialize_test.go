package state

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
)

func TestEntryWireFormat(t *testing.T) {
	x, err := json.Marshal(Entry{Src: "1", Dst: "2", Cost: 3})
	assert.NoError(t, err)
	assert.Equal(t, `["1","2",3]`, string(x))

	x, err = json.Marshal(Entry{Src: "1", Dst: "3", Cost: Inf})
	assert.NoError(t, err)
	assert.Equal(t, `["1","3","inf"]`, string(x))
}

func TestTableRoundTrip(t *testing.T) {
	table := []Entry{
		{Src: "1", Dst: "1", Cost: 0},
		{Src: "1", Dst: "2", Cost: 3.5},
		{Src: "1", Dst: "3", Cost: Inf},
	}
	x, err := json.Marshal(table)
	assert.NoError(t, err)
	var y []Entry
	err = json.Unmarshal(x, &y)
	assert.NoError(t, err)
	assert.Equal(t, table, y)
}

func TestDecodeInvalidRow(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`["1","2"]`), &e)
	assert.ErrorContains(t, err, "3 elements")

	err = json.Unmarshal([]byte(`["1","2",-4]`), &e)
	assert.ErrorContains(t, err, "non-negative")

	err = json.Unmarshal([]byte(`"nope"`), &e)
	assert.Error(t, err)
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := SimCfg{
		Host:       "127.0.0.1",
		BasePort:   9000,
		PortStride: 5,
		Transport:  TransportKCP,
		LogPath:    "logs/sim.log",
		Verbose:    true,
	}
	x, err := yaml.Marshal(cfg)
	assert.NoError(t, err)
	y := SimCfg{}
	err = yaml.Unmarshal(x, &y)
	assert.NoError(t, err)
	assert.EqualValues(t, cfg, y)
}

func TestConfigValidator(t *testing.T) {
	cfg := DefaultSimCfg()
	assert.NoError(t, SimConfigValidator(&cfg))

	bad := DefaultSimCfg()
	bad.Transport = "carrier-pigeon"
	assert.ErrorContains(t, SimConfigValidator(&bad), "unknown transport")

	bad = DefaultSimCfg()
	bad.BasePort = 70000
	assert.ErrorContains(t, SimConfigValidator(&bad), "out of range")

	bad = DefaultSimCfg()
	bad.BasePort = 9000
	bad.PortStride = 0
	assert.ErrorContains(t, SimConfigValidator(&bad), "port_stride")
}
