package spikeproc

import (
	"github.com/spinnlab/spikepipe/datarecording"
)

// StepPacketEntry is one recorded telemetry row: how many spike packets a
// region received during one timestep.
type StepPacketEntry struct {
	Region  string
	Step    uint64
	Packets uint32
}

// StepPacketRecorder is a TelemetrySink that stores per-step packet counts
// through a DataRecorder.
type StepPacketRecorder struct {
	recorder  datarecording.DataRecorder
	tableName string
}

// NewStepPacketRecorder creates a recorder that writes into the given table,
// creating it on the spot.
func NewStepPacketRecorder(
	recorder datarecording.DataRecorder,
	tableName string,
) *StepPacketRecorder {
	recorder.CreateTable(tableName, StepPacketEntry{})

	return &StepPacketRecorder{
		recorder:  recorder,
		tableName: tableName,
	}
}

// RecordStepPackets stores one telemetry row.
func (r *StepPacketRecorder) RecordStepPackets(
	region string,
	step uint64,
	count uint32,
) {
	r.recorder.InsertData(r.tableName, StepPacketEntry{
		Region:  region,
		Step:    step,
		Packets: count,
	})
}
