package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spinnlab/spikepipe/mem"
	"github.com/spinnlab/spikepipe/monitoring"
	"github.com/spinnlab/spikepipe/sdram"
	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/simulation"
	"github.com/spinnlab/spikepipe/spikeproc"
	"github.com/spinnlab/spikepipe/stimulus"
	"github.com/spinnlab/spikepipe/synapse"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a spike-delivery simulation.",
	Long: `Run builds one core, one bulk-memory controller, and one ` +
		`stimulus source, replays a randomly generated spike schedule, and ` +
		`reports the provenance counters of the run.`,
	Run: runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("timesteps", 100,
		"number of simulated timesteps")
	runCmd.Flags().Int("timestep-cycles", 1000,
		"length of one timestep, in cycles")
	runCmd.Flags().Int("neurons", 256,
		"number of neurons on the core")
	runCmd.Flags().Int("keys", 1024,
		"number of distinct spike keys with a synaptic row")
	runCmd.Flags().Int("row-synapses", 16,
		"largest number of synapses in one row")
	runCmd.Flags().Int("buffer-capacity", 256,
		"capacity of the input spike buffer")
	runCmd.Flags().Int("spikes-per-step", 32,
		"spikes injected per timestep")
	runCmd.Flags().Bool("clear-late", false,
		"drop buffered spikes at each timestep boundary")
	runCmd.Flags().Int("rewires", 0,
		"structural-plasticity attempts to perform")
	runCmd.Flags().Int64("seed", 1,
		"random seed for rows and the spike schedule")
	runCmd.Flags().Bool("monitor", false,
		"start the monitoring server")
	runCmd.Flags().Int("monitor-port", defaultMonitorPort(),
		"port of the monitoring server, 0 picks a random port")
	runCmd.Flags().String("output", envOr("SPIKEPIPE_OUTPUT", "spikepipe"),
		"name of the output database, without extension")
}

func defaultMonitorPort() int {
	port, err := strconv.Atoi(envOr("SPIKEPIPE_MONITOR_PORT", "0"))
	if err != nil {
		return 0
	}

	return port
}

type runConfig struct {
	timesteps      int
	timestepCycles int
	neurons        int
	keys           int
	rowSynapses    int
	bufferCapacity int
	spikesPerStep  int
	clearLate      bool
	rewires        int
	seed           int64
	monitor        bool
	monitorPort    int
	output         string
}

func parseRunConfig(cmd *cobra.Command) runConfig {
	cfg := runConfig{}

	cfg.timesteps, _ = cmd.Flags().GetInt("timesteps")
	cfg.timestepCycles, _ = cmd.Flags().GetInt("timestep-cycles")
	cfg.neurons, _ = cmd.Flags().GetInt("neurons")
	cfg.keys, _ = cmd.Flags().GetInt("keys")
	cfg.rowSynapses, _ = cmd.Flags().GetInt("row-synapses")
	cfg.bufferCapacity, _ = cmd.Flags().GetInt("buffer-capacity")
	cfg.spikesPerStep, _ = cmd.Flags().GetInt("spikes-per-step")
	cfg.clearLate, _ = cmd.Flags().GetBool("clear-late")
	cfg.rewires, _ = cmd.Flags().GetInt("rewires")
	cfg.seed, _ = cmd.Flags().GetInt64("seed")
	cfg.monitor, _ = cmd.Flags().GetBool("monitor")
	cfg.monitorPort, _ = cmd.Flags().GetInt("monitor-port")
	cfg.output, _ = cmd.Flags().GetString("output")

	return cfg
}

func runSimulation(cmd *cobra.Command, _ []string) {
	cfg := parseRunConfig(cmd)

	simBuilder := simulation.MakeBuilder().
		WithOutputFileName(cfg.output)
	if !cfg.monitor {
		simBuilder = simBuilder.WithoutMonitoring()
	} else if cfg.monitorPort > 0 {
		simBuilder = simBuilder.WithMonitorPort(cfg.monitorPort)
	}

	s := simBuilder.Build()
	defer s.Terminate()

	engine := s.GetEngine()
	freq := 1 * sim.GHz

	memCtrl := sdram.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithNewStorage(64 * mem.MB).
		Build("SDRAM")
	s.RegisterComponent(memCtrl)

	rng := rand.New(rand.NewSource(cfg.seed))
	table, targets := populateRows(memCtrl.Storage, rng, cfg)

	ring := synapse.NewRingBuffer(synapse.MaxDelay+1, cfg.neurons)
	planner := spikeproc.NewCyclicRewirePlanner(targets)

	var telemetry spikeproc.TelemetrySink = spikeproc.NewStepPacketRecorder(
		s.GetDataRecorder(), "step_packets")

	var bar *monitoring.ProgressBar
	if m := s.GetMonitor(); m != nil {
		bar = m.CreateProgressBar("Timesteps", uint64(cfg.timesteps))
		telemetry = &progressSink{inner: telemetry, bar: bar}
	}

	proc := spikeproc.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithResolver(table).
		WithAccumulator(ring).
		WithRewirePlanner(planner).
		WithBulkMemoryPort(memCtrl.TopPort()).
		WithBufferCapacity(cfg.bufferCapacity).
		WithRowMaxBytes(rowSlotBytes(cfg)).
		WithTimestepPeriod(cfg.timestepCycles).
		WithClearLatePackets(cfg.clearLate).
		WithTelemetrySink(telemetry).
		WithTelemetryRegion("Core0").
		Build("SpikeProc")
	s.RegisterComponent(proc)

	if m := s.GetMonitor(); m != nil {
		m.RegisterSpikeProcessor(proc)
	}

	stim := stimulus.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithDst(proc.SpikePort()).
		WithSchedule(makeSchedule(rng, cfg)).
		Build("Stim")
	s.RegisterComponent(stim)

	conn := sim.NewDirectConnection("Conn", engine, freq)
	conn.PlugIn(stim.OutPort())
	conn.PlugIn(proc.SpikePort())
	conn.PlugIn(proc.MemPort())
	conn.PlugIn(memCtrl.TopPort())

	proc.StartStepTimer(cfg.timesteps)
	if cfg.rewires > 0 {
		proc.RequestRewiring(cfg.rewires)
	}
	stim.TickLater()

	err := engine.Run()
	if err != nil {
		log.Fatal(err)
	}

	if m := s.GetMonitor(); m != nil {
		m.CompleteProgressBar(bar)
	}

	reportProvenance(s, proc)
}

// progressSink forwards step telemetry and advances a monitor progress bar at
// each timestep boundary.
type progressSink struct {
	inner spikeproc.TelemetrySink
	bar   *monitoring.ProgressBar
}

func (s *progressSink) RecordStepPackets(
	region string,
	step uint64,
	count uint32,
) {
	s.inner.RecordStepPackets(region, step, count)
	s.bar.Advance(1)
}

// rowSlotBytes is the fixed spacing of rows in bulk memory, large enough for
// the biggest allowed row.
func rowSlotBytes(cfg runConfig) uint64 {
	return synapse.RowBytes(cfg.rowSynapses)
}

func populateRows(
	storage *mem.Storage,
	rng *rand.Rand,
	cfg runConfig,
) (*synapse.RowTable, []synapse.RowLocation) {
	table := synapse.NewRowTable()
	targets := make([]synapse.RowLocation, 0, cfg.keys)
	slotBytes := rowSlotBytes(cfg)

	for k := 0; k < cfg.keys; k++ {
		n := rng.Intn(cfg.rowSynapses + 1)
		records := make([]synapse.Record, n)
		for i := range records {
			records[i] = synapse.Record{
				Weight: uint16(rng.Intn(100) + 1),
				Delay:  uint8(rng.Intn(synapse.MaxDelay) + 1),
				Neuron: uint8(rng.Intn(cfg.neurons)),
			}
		}

		addr := uint64(k) * slotBytes
		err := storage.Write(addr, synapse.EncodeRow(records))
		if err != nil {
			log.Fatal(err)
		}

		// Fetches read the whole slot so a written-back row of a
		// different length still decodes.
		loc := synapse.RowLocation{Address: addr, NBytes: slotBytes}
		table.Add(synapse.Key(k), loc)
		targets = append(targets, loc)
	}

	return table, targets
}

func makeSchedule(rng *rand.Rand, cfg runConfig) []stimulus.Spike {
	schedule := make([]stimulus.Spike, 0,
		cfg.timesteps*cfg.spikesPerStep)

	for step := 0; step < cfg.timesteps; step++ {
		base := uint64(step) * uint64(cfg.timestepCycles)
		for i := 0; i < cfg.spikesPerStep; i++ {
			schedule = append(schedule, stimulus.Spike{
				Cycle: base + uint64(rng.Intn(cfg.timestepCycles)),
				Key:   synapse.Key(rng.Intn(cfg.keys)),
			})
		}
	}

	return schedule
}

func reportProvenance(s *simulation.Simulation, proc *spikeproc.Comp) {
	snapshot := proc.Provenance().Snapshot()

	recorder := s.GetDataRecorder()
	recorder.CreateTable("provenance", spikeproc.ProvenanceSnapshot{})
	recorder.InsertData("provenance", snapshot)
	recorder.Flush()

	fmt.Printf("Buffer overflows:      %d\n", snapshot.BufferOverflows)
	fmt.Printf("DMAs complete:         %d\n", snapshot.DMAsComplete)
	fmt.Printf("Spikes processed:      %d\n", snapshot.SpikesProcessed)
	fmt.Printf("Rewires:               %d\n", snapshot.Rewires)
	fmt.Printf("Late packets dropped:  %d\n", snapshot.LatePackets)
	fmt.Printf("Ghost searches:        %d\n", snapshot.GhostSearches)
	fmt.Printf("Max buffer fill:       %d\n", snapshot.MaxBufferFill)
}
