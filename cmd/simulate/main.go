package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hackgods/clinicops/internal/auth"
	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/db"
	"github.com/hackgods/clinicops/internal/logger"
	"github.com/hackgods/clinicops/internal/schedule"
)

type SimConfig struct {
	APIBaseURL    string
	Duration      time.Duration
	Workers       int
	BookingRatio  float64
	ReadRatio     float64
	PatientLimit  int
	HotSlots      int
	Date          time.Time
	PostgresDSN   string
	JWTSecret     string
	JWTIssuer     string
	DBMaxConns    int32
	DBMinConns    int32
	LocalTimezone *time.Location
}

// target is one bookable slot of one practitioner on the simulated date.
type target struct {
	PractitionerID uuid.UUID
	Slot           string
}

type DataPool struct {
	Patients      []uuid.UUID
	Practitioners []uuid.UUID
	Targets       []target
	mu            sync.RWMutex
	appointments  []uuid.UUID
}

func (dp *DataPool) AddAppointment(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) GetRandomAppointment(rng *rand.Rand) (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

func (dp *DataPool) Booked() int {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	return len(dp.appointments)
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Booking        OperationMetrics
	ReadByID       OperationMetrics
	ListByPatient  OperationMetrics
	AvailableSlots OperationMetrics
	Pending        OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	token   string
	log     zerolog.Logger
	metrics Metrics
}

func main() {
	baseCfg, err := config.Load()
	if err != nil {
		logger.Bootstrap().Fatal().Err(err).Msg("failed to load base config")
	}
	log := logger.New(baseCfg.Env, baseCfg.LogLevel).With().Str("component", "simulate").Logger()

	cfg, err := loadConfig(baseCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("read", cfg.ReadRatio).
		Str("date", cfg.Date.Format(time.DateOnly)).
		Msg("simulator starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	log.Info().
		Int("patients", len(dataPool.Patients)).
		Int("practitioners", len(dataPool.Practitioners)).
		Int("slots", len(dataPool.Targets)).
		Msg("data pool loaded")

	// The simulator acts as the front desk. Without a secret the server runs
	// in dev mode and ignores the token.
	token := "dev"
	if cfg.JWTSecret != "" {
		signer := auth.New(auth.Config{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer})
		token, err = signer.Sign("simulator", cfg.Duration+time.Hour, auth.Receptionist, auth.Doctor)
		if err != nil {
			log.Fatal().Err(err).Msg("sign token")
		}
	}

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{Timeout: 10 * time.Second},
		token:  token,
		log:    log,
	}

	sim.Run()
	sim.PrintReport(os.Stdout)
}

func loadConfig(base config.Config) (SimConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SIM_API_BASE_URL", "http://localhost:8080")
	v.SetDefault("SIM_DURATION", "30s")
	v.SetDefault("SIM_WORKERS", 10)
	v.SetDefault("SIM_BOOKING_RATIO", 0.6)
	v.SetDefault("SIM_READ_RATIO", 0.4)
	v.SetDefault("SIM_PATIENT_LIMIT", 4000)
	v.SetDefault("SIM_HOT_SLOTS", 16)

	cfg := SimConfig{
		APIBaseURL:    strings.TrimRight(v.GetString("SIM_API_BASE_URL"), "/"),
		Duration:      v.GetDuration("SIM_DURATION"),
		Workers:       v.GetInt("SIM_WORKERS"),
		BookingRatio:  v.GetFloat64("SIM_BOOKING_RATIO"),
		ReadRatio:     v.GetFloat64("SIM_READ_RATIO"),
		PatientLimit:  v.GetInt("SIM_PATIENT_LIMIT"),
		HotSlots:      v.GetInt("SIM_HOT_SLOTS"),
		PostgresDSN:   base.PostgresDSN,
		JWTSecret:     base.JWTSecret,
		JWTIssuer:     base.JWTIssuer,
		DBMaxConns:    base.DBMaxConns,
		DBMinConns:    base.DBMinConns,
		LocalTimezone: base.Loc(),
	}

	// a week out by default, so the date never falls in the past mid-run
	cfg.Date = time.Now().In(cfg.LocalTimezone).AddDate(0, 0, 7)
	if raw := v.GetString("SIM_DATE"); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, cfg.LocalTimezone)
		if err != nil {
			return cfg, fmt.Errorf("SIM_DATE: %w", err)
		}
		cfg.Date = d
	}

	total := cfg.BookingRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.ReadRatio /= total
	}

	switch {
	case cfg.PostgresDSN == "":
		return cfg, fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	case cfg.Workers <= 0:
		return cfg, fmt.Errorf("SIM_WORKERS must be > 0")
	case cfg.Duration <= 0:
		return cfg, fmt.Errorf("SIM_DURATION must be > 0")
	}
	return cfg, nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `SELECT id FROM patients LIMIT $1`, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		dataPool.Patients = append(dataPool.Patients, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	rows, err = pool.Query(ctx, `
		SELECT s.practitioner_id, s.start_time, s.end_time
		FROM practitioner_schedules s
		JOIN practitioners p ON p.id = s.practitioner_id
		WHERE s.is_active AND p.is_active AND s.day_of_week = $1
		ORDER BY s.practitioner_id
	`, string(schedule.WeekdayOf(cfg.Date)))
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	windows := make(map[uuid.UUID][]schedule.Window)
	for rows.Next() {
		var (
			id uuid.UUID
			w  schedule.Window
		)
		if err := rows.Scan(&id, &w.Start, &w.End); err != nil {
			rows.Close()
			return nil, err
		}
		if _, seen := windows[id]; !seen {
			dataPool.Practitioners = append(dataPool.Practitioners, id)
		}
		windows[id] = append(windows[id], w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}

	for _, id := range dataPool.Practitioners {
		for _, slot := range schedule.GenerateSlots(windows[id], nil) {
			dataPool.Targets = append(dataPool.Targets, target{PractitionerID: id, Slot: slot})
		}
	}
	// Only a few hot slots so workers collide on them.
	if cfg.HotSlots > 0 && len(dataPool.Targets) > cfg.HotSlots {
		rand.Shuffle(len(dataPool.Targets), func(i, j int) {
			dataPool.Targets[i], dataPool.Targets[j] = dataPool.Targets[j], dataPool.Targets[i]
		})
		dataPool.Targets = dataPool.Targets[:cfg.HotSlots]
	}

	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded")
	}
	if len(dataPool.Targets) == 0 {
		return nil, fmt.Errorf("no practitioner works on %s", schedule.WeekdayOf(cfg.Date))
	}
	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Int("booked", s.pool.Booked()).Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if rng.Float64() < s.config.BookingRatio {
				s.doBooking(ctx, rng)
				continue
			}
			switch rng.Intn(4) {
			case 0:
				s.doReadByID(ctx, rng)
			case 1:
				s.doListByPatient(ctx, rng)
			case 2:
				s.doAvailableSlots(ctx, rng)
			case 3:
				s.doPending(ctx, rng)
			}
		}
	}
}

func (s *Simulator) newRequest(ctx context.Context, method, path string, body io.Reader) *http.Request {
	req, _ := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, body)
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	t := s.pool.Targets[rng.Intn(len(s.pool.Targets))]
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	body, _ := json.Marshal(map[string]string{
		"patient_id":       patientID.String(),
		"practitioner_id":  t.PractitionerID.String(),
		"appointment_date": s.config.Date.Format(time.DateOnly),
		"time_slot":        t.Slot,
	})

	start := time.Now()
	resp, err := s.client.Do(s.newRequest(ctx, http.MethodPost, "/api/appointments", bytes.NewReader(body)))
	latency := time.Since(start)

	success, conflict := false, false
	if err == nil {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var appt struct {
				ID uuid.UUID `json:"id"`
			}
			if json.NewDecoder(resp.Body).Decode(&appt) == nil && appt.ID != uuid.Nil {
				s.pool.AddAppointment(appt.ID)
			}
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) timedGet(ctx context.Context, path string, om *OperationMetrics) {
	start := time.Now()
	resp, err := s.client.Do(s.newRequest(ctx, http.MethodGet, path, nil))
	latency := time.Since(start)

	success := false
	if err == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}
	om.Record(latency, success, false)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}
	s.timedGet(ctx, "/api/appointments/"+id.String(), &s.metrics.ReadByID)
}

func (s *Simulator) doListByPatient(ctx context.Context, rng *rand.Rand) {
	id := s.pool.Patients[rng.Intn(len(s.pool.Patients))]
	s.timedGet(ctx, "/api/appointments/patient/"+id.String(), &s.metrics.ListByPatient)
}

func (s *Simulator) doAvailableSlots(ctx context.Context, rng *rand.Rand) {
	id := s.pool.Practitioners[rng.Intn(len(s.pool.Practitioners))]
	s.timedGet(ctx, fmt.Sprintf("/api/schedules/practitioner/%s/available-slots?date=%s",
		id, s.config.Date.Format(time.DateOnly)), &s.metrics.AvailableSlots)
}

func (s *Simulator) doPending(ctx context.Context, rng *rand.Rand) {
	id := s.pool.Practitioners[rng.Intn(len(s.pool.Practitioners))]
	s.timedGet(ctx, fmt.Sprintf("/api/appointments/practitioner/%s/pending?date=%s",
		id, s.config.Date.Format(time.DateOnly)), &s.metrics.Pending)
}

func (s *Simulator) PrintReport(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "SIMULATION REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Duration: %s\n", s.config.Duration)
	fmt.Fprintf(w, "Workers: %d\n", s.config.Workers)
	fmt.Fprintf(w, "Date: %s, contested slots: %d\n", s.config.Date.Format(time.DateOnly), len(s.pool.Targets))
	fmt.Fprintln(w)

	printOperationReport(w, "Booking", &s.metrics.Booking)
	printOperationReport(w, "Read by ID", &s.metrics.ReadByID)
	printOperationReport(w, "List by Patient", &s.metrics.ListByPatient)
	printOperationReport(w, "Available Slots", &s.metrics.AvailableSlots)
	printOperationReport(w, "Pending Queue", &s.metrics.Pending)

	// Each contested slot can be won exactly once.
	if booked := s.pool.Booked(); booked > len(s.pool.Targets) {
		fmt.Fprintf(w, "DOUBLE BOOKING: %d appointments for %d slots\n", booked, len(s.pool.Targets))
	}
}

func printOperationReport(w io.Writer, name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "  Total: %d\n", total)
	fmt.Fprintf(w, "  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Fprintf(w, "  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Fprintf(w, "  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Fprintf(w, "  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Fprintln(w)
}
