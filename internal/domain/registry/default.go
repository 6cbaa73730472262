package registry

// DefaultVersion identifies the shipped reference registry.
const DefaultVersion = "1.0.1"

// Default returns the reference registry shipped with the service. The set
// and keys mirror the production canonical registry; audit tooling diffs a
// live registry against this list.
func Default() *Registry {
	r, err := New(DefaultVersion, defaultMetrics)
	if err != nil {
		// Static data validated by tests; a failure here is a build defect.
		panic(err)
	}
	return r
}

var defaultMetrics = []MetricDefinition{ //nolint:gochecknoglobals // static reference data
	{Key: "athlete_name", Label: "Athlete name", Dimension: Identity, Unit: "text"},
	{Key: "player_external_id", Label: "External player ID", Dimension: Identity, Unit: "text"},
	{Key: "position", Label: "Position", Dimension: Text, Unit: "text"},
	{Key: "gps_system", Label: "GPS system", Dimension: Text, Unit: "text"},

	{Key: "minutes_played", Label: "Minutes played", Dimension: Time, Unit: "min", PlausibleMin: 0, PlausibleMax: 150},
	{Key: "duration_s", Label: "Session duration (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000},
	{Key: "uptime_s", Label: "Sensor uptime (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 86400},

	{Key: "total_distance_m", Label: "Total distance (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 50000, Averageable: true},
	{Key: "distance_zone_0_m", Label: "Distance zone 0 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 30000, Averageable: true},
	{Key: "distance_zone_1_m", Label: "Distance zone 1 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 30000, Averageable: true},
	{Key: "distance_zone_2_m", Label: "Distance zone 2 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 30000, Averageable: true},
	{Key: "distance_zone_3_m", Label: "Distance zone 3 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 20000, Averageable: true},
	{Key: "distance_zone_4_m", Label: "Distance zone 4 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 10000, Averageable: true},
	{Key: "distance_zone_5_m", Label: "Distance zone 5 (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 5000, Averageable: true},
	{Key: "hsr_distance_m", Label: "High-speed running distance (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 5000, Averageable: true},
	{Key: "very_high_speed_distance_m", Label: "Very high speed distance (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 3000, Averageable: true},
	{Key: "hard_running_distance_m", Label: "Hard running distance (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 8000, Averageable: true},
	{Key: "sprint_distance_m", Label: "Sprint distance (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 3000, Averageable: true},
	{Key: "meters_per_acceleration_m", Label: "Meters per acceleration (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 1000},
	{Key: "meters_per_deceleration_m", Label: "Meters per deceleration (m)", Dimension: Distance, PlausibleMin: 0, PlausibleMax: 1000},
	{Key: "x_pos_m", Label: "X position (m)", Dimension: Distance, PlausibleMin: -200, PlausibleMax: 200},
	{Key: "y_pos_m", Label: "Y position (m)", Dimension: Distance, PlausibleMin: -200, PlausibleMax: 200},

	{Key: "max_speed_kmh", Label: "Max speed (km/h)", Dimension: Speed, Unit: "km/h", PlausibleMin: 0, PlausibleMax: 45},
	{Key: "max_speed_ms", Label: "Max speed (m/s)", Dimension: Speed, PlausibleMin: 0, PlausibleMax: 12.5},
	{Key: "average_speed_ms", Label: "Average speed (m/s)", Dimension: Speed, PlausibleMin: 0, PlausibleMax: 6},
	{Key: "sprint_max_speed_ms", Label: "Sprint max speed (m/s)", Dimension: Speed, PlausibleMin: 0, PlausibleMax: 12.5},
	{Key: "distance_per_min_m", Label: "Distance per minute (m/min)", Dimension: Speed, Unit: "m/min", PlausibleMin: 0, PlausibleMax: 250},

	{Key: "hsr_ratio", Label: "HSR share of total", Dimension: Ratio, PlausibleMin: 0, PlausibleMax: 1},
	{Key: "very_high_speed_ratio", Label: "VHSR share of total", Dimension: Ratio, PlausibleMin: 0, PlausibleMax: 1},
	{Key: "hard_running_distance_ratio", Label: "Hard running share of total", Dimension: Ratio, PlausibleMin: 0, PlausibleMax: 1},
	{Key: "sprint_ratio", Label: "Sprint share of total", Dimension: Ratio, PlausibleMin: 0, PlausibleMax: 1},
	{Key: "work_ratio", Label: "Work share of time", Dimension: Ratio, PlausibleMin: 0, PlausibleMax: 1},

	{Key: "accelerations_count", Label: "Accelerations", Dimension: Count, PlausibleMin: 0, PlausibleMax: 500, Averageable: true},
	{Key: "accelerations_high_count", Label: "High accelerations", Dimension: Count, PlausibleMin: 0, PlausibleMax: 300, Averageable: true},
	{Key: "decelerations_count", Label: "Decelerations", Dimension: Count, PlausibleMin: 0, PlausibleMax: 500, Averageable: true},
	{Key: "decelerations_high_count", Label: "High decelerations", Dimension: Count, PlausibleMin: 0, PlausibleMax: 300, Averageable: true},
	{Key: "number_of_sprints_count", Label: "Sprints", Dimension: Count, PlausibleMin: 0, PlausibleMax: 200, Averageable: true},
	{Key: "flying_sprints_count", Label: "Flying sprints", Dimension: Count, PlausibleMin: 0, PlausibleMax: 100, Averageable: true},
	{Key: "left_foot_contacts_count", Label: "Left foot contacts", Dimension: Count, PlausibleMin: 0, PlausibleMax: 20000, Averageable: true},
	{Key: "right_foot_contacts_count", Label: "Right foot contacts", Dimension: Count, PlausibleMin: 0, PlausibleMax: 20000, Averageable: true},
	{Key: "steps_total_count", Label: "Total steps", Dimension: Count, PlausibleMin: 0, PlausibleMax: 50000, Averageable: true},

	{Key: "sprint_duration_s", Label: "Sprint duration (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 1200, Averageable: true},
	{Key: "sprint_total_time_s", Label: "Total sprint time (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 1800, Averageable: true},
	{Key: "sprint_time_per_run_s", Label: "Average sprint time (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 60},
	{Key: "standing_time_s", Label: "Standing time (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "walking_time_s", Label: "Walking time (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "work_time_s", Label: "Work time (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},

	{Key: "heart_rate_avg_bpm", Label: "Average heart rate (bpm)", Dimension: HeartRate, PlausibleMin: 30, PlausibleMax: 230},
	{Key: "heart_rate_max_bpm", Label: "Max heart rate (bpm)", Dimension: HeartRate, PlausibleMin: 30, PlausibleMax: 230},
	{Key: "heart_rate_time_in_zone_1_s", Label: "Time in HR zone 1 (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "heart_rate_time_in_zone_2_s", Label: "Time in HR zone 2 (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "heart_rate_time_in_zone_3_s", Label: "Time in HR zone 3 (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "heart_rate_time_in_zone_4_s", Label: "Time in HR zone 4 (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},
	{Key: "heart_rate_time_in_zone_5_s", Label: "Time in HR zone 5 (s)", Dimension: Time, Unit: "s", PlausibleMin: 0, PlausibleMax: 36000, Averageable: true},

	{Key: "aee_kcal", Label: "Active energy expenditure (kcal)", Dimension: Energy, PlausibleMin: 0, PlausibleMax: 5000, Averageable: true},
	{Key: "body_mass_kg", Label: "Body mass (kg)", Dimension: Mass, PlausibleMin: 30, PlausibleMax: 120},

	{Key: "total_load_au", Label: "Total load (AU)", Dimension: Load, PlausibleMin: 0, PlausibleMax: 2000, Averageable: true},
	{Key: "accumulated_load_au", Label: "Accumulated load (AU)", Dimension: Load, PlausibleMin: 0, PlausibleMax: 5000, Averageable: true},
	{Key: "neuromuscular_load_au", Label: "Neuromuscular load (AU)", Dimension: Load, PlausibleMin: 0, PlausibleMax: 2000, Averageable: true},
	{Key: "session_rpe_au", Label: "Session RPE (AU)", Dimension: Load, PlausibleMin: 0, PlausibleMax: 1500, Averageable: true},
}
