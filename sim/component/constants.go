package component

import (
	"math"
	"time"
)

const (
	TickRate = 128
	Dt       = 1.0 / TickRate

	MaxHealth = 100
)

// Constants is the tuning table shared read-only by every system. Field
// names map to the keys of prefabs/tuning.yaml.
type Constants struct {
	// Movement
	Gravity             float64 `yaml:"gravity"`
	MaxSpeed            float64 `yaml:"max_speed"`
	WalkSpeed           float64 `yaml:"walk_speed"`
	CrouchSpeed         float64 `yaml:"crouch_speed"`
	ProneSpeed          float64 `yaml:"prone_speed"`
	GroundAccel         float64 `yaml:"ground_accel"`
	AirAccel            float64 `yaml:"air_accel"`
	AirWishSpeed        float64 `yaml:"air_wish_speed"`
	GroundFriction      float64 `yaml:"ground_friction"`
	StopSpeed           float64 `yaml:"stop_speed"`
	MaxWalkableNormalY  float64 `yaml:"max_walkable_normal_y"`
	JumpVelocity        float64 `yaml:"jump_velocity"`
	JumpBufferMs        float64 `yaml:"jump_buffer_ms"`
	CoyoteMs            float64 `yaml:"coyote_ms"`
	JumpCutMultiplier   float64 `yaml:"jump_cut_multiplier"`
	JumpCutFloor        float64 `yaml:"jump_cut_floor"`
	BhopWindowMs        float64 `yaml:"bhop_window_ms"`
	BhopBoost           float64 `yaml:"bhop_boost"`
	CrouchSlideMinSpeed float64 `yaml:"crouch_slide_min_speed"`
	SlideBoost          float64 `yaml:"slide_boost"`
	SlideFriction       float64 `yaml:"slide_friction"`
	SlideRampAfter      float64 `yaml:"slide_ramp_after"`
	SlideRampRate       float64 `yaml:"slide_ramp_rate"`
	SlideMinSpeed       float64 `yaml:"slide_min_speed"`
	ProneDoubleTapMs    float64 `yaml:"prone_double_tap_ms"`
	ProneTransitionTime float64 `yaml:"prone_transition_time"`
	DashSpeed           float64 `yaml:"dash_speed"`
	DashDuration        float64 `yaml:"dash_duration"`
	DashCooldown        float64 `yaml:"dash_cooldown"`
	DashDoubleTapMs     float64 `yaml:"dash_double_tap_ms"`
	WallRunMinSpeed     float64 `yaml:"wall_run_min_speed"`
	WallNormalMaxY      float64 `yaml:"wall_normal_max_y"`
	WallRunGravityScale float64 `yaml:"wall_run_gravity_scale"`
	WallRunMaxTime      float64 `yaml:"wall_run_max_time"`
	WallRunStick        float64 `yaml:"wall_run_stick"`
	WallRunRearm        float64 `yaml:"wall_run_rearm"`
	WallJumpUp          float64 `yaml:"wall_jump_up"`
	WallJumpPush        float64 `yaml:"wall_jump_push"`
	WallJumpChainBonus  float64 `yaml:"wall_jump_chain_bonus"`
	WallJumpChainMax    int     `yaml:"wall_jump_chain_max"`
	WallJumpChainReset  float64 `yaml:"wall_jump_chain_reset"`

	// Respawn and look
	VoidY             float64 `yaml:"void_y"`
	RespawnGraceTicks int     `yaml:"respawn_grace_ticks"`
	MouseSensitivity  float64 `yaml:"mouse_sensitivity"`
	PitchLimit        float64 `yaml:"pitch_limit"`

	// Collision
	MaxStepDisplacement float64 `yaml:"max_step_displacement"`
	MaxSubsteps         int     `yaml:"max_substeps"`
	BlockingRatio       float64 `yaml:"blocking_ratio"`
	LandingDipThreshold float64 `yaml:"landing_dip_threshold"`
	LandingDipScale     float64 `yaml:"landing_dip_scale"`
	LandingDipMax       float64 `yaml:"landing_dip_max"`
	FootstepSpeedFloor  float64 `yaml:"footstep_speed_floor"`
	FootstepInterval    float64 `yaml:"footstep_interval"`
	FootstepMinInterval float64 `yaml:"footstep_min_interval"`

	// Mantle
	MantleMinHeight   float64 `yaml:"mantle_min_height"`
	MantleMaxHeight   float64 `yaml:"mantle_max_height"`
	MantleReach       float64 `yaml:"mantle_reach"`
	MantleDuration    float64 `yaml:"mantle_duration"`
	MantleBoost       float64 `yaml:"mantle_boost"`
	MantleCooldown    float64 `yaml:"mantle_cooldown"`
	MantleMinApproach float64 `yaml:"mantle_min_approach"`
	MantleApexSpeed   float64 `yaml:"mantle_apex_speed"`

	// Camera
	WallRunTilt     float64 `yaml:"wall_run_tilt"`
	TiltRate        float64 `yaml:"tilt_rate"`
	LandingDipDecay float64 `yaml:"landing_dip_decay"`
	SlidePitch      float64 `yaml:"slide_pitch"`
	SlidePitchRate  float64 `yaml:"slide_pitch_rate"`

	// Combat
	AdsRate            float64 `yaml:"ads_rate"`
	AdsEpsilon         float64 `yaml:"ads_epsilon"`
	AdsNearFull        float64 `yaml:"ads_near_full"`
	InspectRate        float64 `yaml:"inspect_rate"`
	RecoilRecoverRate  float64 `yaml:"recoil_recover_rate"`
	RecoilRecoverDelay float64 `yaml:"recoil_recover_delay"`
	RecoilSpreadDecay  float64 `yaml:"recoil_spread_decay"`
	SwayAmplitude      float64 `yaml:"sway_amplitude"`
	SwayFrequency      float64 `yaml:"sway_frequency"`
	SwayMouseGain      float64 `yaml:"sway_mouse_gain"`
	SwayEnergyDecay    float64 `yaml:"sway_energy_decay"`
	SwayStabilizeTime  float64 `yaml:"sway_stabilize_time"`
	SwayStableFactor   float64 `yaml:"sway_stable_factor"`
	BreathHoldFactor   float64 `yaml:"breath_hold_factor"`
	BreathHoldMax      float64 `yaml:"breath_hold_max"`
	BreathRecoverRate  float64 `yaml:"breath_recover_rate"`
	ScopeDriftDuration float64 `yaml:"scope_drift_duration"`
	KnifeLungeSpeed    float64 `yaml:"knife_lunge_speed"`
	KnifeLungeDuration float64 `yaml:"knife_lunge_duration"`
	BeamPushback       float64 `yaml:"beam_pushback"`
	BeamMinUpVelocity  float64 `yaml:"beam_min_up_velocity"`
	BeamSteepSin       float64 `yaml:"beam_steep_sin"`
	BeamDPS            float64 `yaml:"beam_dps"`
	BeamAmmoInterval   float64 `yaml:"beam_ammo_interval"`
	MovingSpreadSpeed  float64 `yaml:"moving_spread_speed"`
	SpreadAirborne     float64 `yaml:"spread_airborne"`
	SpreadMoving       float64 `yaml:"spread_moving"`
	SpreadCrouch       float64 `yaml:"spread_crouch"`
	SpreadProne        float64 `yaml:"spread_prone"`
	MaxRays            int     `yaml:"max_rays"`
	HeadMultiplier     float64 `yaml:"head_multiplier"`
	TorsoMultiplier    float64 `yaml:"torso_multiplier"`
	LimbMultiplier     float64 `yaml:"limb_multiplier"`

	// Projectiles
	RocketSpeed          float64 `yaml:"rocket_speed"`
	RocketRadius         float64 `yaml:"rocket_radius"`
	RocketSplashRadius   float64 `yaml:"rocket_splash_radius"`
	RocketSplashForce    float64 `yaml:"rocket_splash_force"`
	RocketSplashDamage   float64 `yaml:"rocket_splash_damage"`
	GrenadeSpeed         float64 `yaml:"grenade_speed"`
	GrenadeUpBoost       float64 `yaml:"grenade_up_boost"`
	GrenadeRadius        float64 `yaml:"grenade_radius"`
	GrenadeFuse          float64 `yaml:"grenade_fuse"`
	GrenadeDamping       float64 `yaml:"grenade_damping"`
	GrenadeSplashRadius  float64 `yaml:"grenade_splash_radius"`
	GrenadeSplashForce   float64 `yaml:"grenade_splash_force"`
	GrenadeSplashDamage  float64 `yaml:"grenade_splash_damage"`
	SelfDamageMultiplier float64 `yaml:"self_damage_multiplier"`
	SplashMaxDeltaV      float64 `yaml:"splash_max_delta_v"`
	ProjectileLifetime   float64 `yaml:"projectile_lifetime"`
	ProjectileSpawnAhead float64 `yaml:"projectile_spawn_ahead"`

	// Grapple
	GrappleMaxRange       float64 `yaml:"grapple_max_range"`
	GrappleMinDot         float64 `yaml:"grapple_min_dot"`
	GrappleSwingLength    float64 `yaml:"grapple_swing_length"`
	GrapplePull           float64 `yaml:"grapple_pull"`
	GrappleReleaseBoost   float64 `yaml:"grapple_release_boost"`
	GrappleReleaseMaxGain float64 `yaml:"grapple_release_max_gain"`

	// Zones
	BoostPadSpeed       float64 `yaml:"boost_pad_speed"`
	SpeedGateMultiplier float64 `yaml:"speed_gate_multiplier"`
	SpeedGateMinSpeed   float64 `yaml:"speed_gate_min_speed"`

	// Output throttles, compared against host wall time.
	HUDInterval time.Duration `yaml:"hud_interval"`
	NetInterval time.Duration `yaml:"net_interval"`
}

// DefaultConstants mirrors prefabs/tuning.yaml so a zero-config controller
// still behaves.
func DefaultConstants() Constants {
	return Constants{
		Gravity:             20,
		MaxSpeed:            40,
		WalkSpeed:           7,
		CrouchSpeed:         3.5,
		ProneSpeed:          1.5,
		GroundAccel:         60,
		AirAccel:            40,
		AirWishSpeed:        1.2,
		GroundFriction:      8,
		StopSpeed:           2,
		MaxWalkableNormalY:  0.7,
		JumpVelocity:        7.5,
		JumpBufferMs:        100,
		CoyoteMs:            100,
		JumpCutMultiplier:   0.5,
		JumpCutFloor:        2,
		BhopWindowMs:        60,
		BhopBoost:           1,
		CrouchSlideMinSpeed: 6,
		SlideBoost:          3,
		SlideFriction:       1.5,
		SlideRampAfter:      0.6,
		SlideRampRate:       6,
		SlideMinSpeed:       3,
		ProneDoubleTapMs:    300,
		ProneTransitionTime: 0.35,
		DashSpeed:           18,
		DashDuration:        0.15,
		DashCooldown:        1,
		DashDoubleTapMs:     250,
		WallRunMinSpeed:     5,
		WallNormalMaxY:      0.3,
		WallRunGravityScale: 0.25,
		WallRunMaxTime:      1.5,
		WallRunStick:        1,
		WallRunRearm:        0.2,
		WallJumpUp:          7,
		WallJumpPush:        6,
		WallJumpChainBonus:  0.1,
		WallJumpChainMax:    3,
		WallJumpChainReset:  1,

		VoidY:             -50,
		RespawnGraceTicks: 8,
		MouseSensitivity:  0.0025,
		PitchLimit:        89 * math.Pi / 180,

		MaxStepDisplacement: 0.25,
		MaxSubsteps:         8,
		BlockingRatio:       0.3,
		LandingDipThreshold: 4,
		LandingDipScale:     0.012,
		LandingDipMax:       0.25,
		FootstepSpeedFloor:  1.5,
		FootstepInterval:    0.5,
		FootstepMinInterval: 0.25,

		MantleMinHeight:   0.6,
		MantleMaxHeight:   2,
		MantleReach:       0.8,
		MantleDuration:    0.3,
		MantleBoost:       2,
		MantleCooldown:    0.4,
		MantleMinApproach: 1,
		MantleApexSpeed:   1.5,

		WallRunTilt:     0.12,
		TiltRate:        10,
		LandingDipDecay: 10,
		SlidePitch:      -0.05,
		SlidePitchRate:  8,

		AdsRate:            14,
		AdsEpsilon:         0.001,
		AdsNearFull:        0.95,
		InspectRate:        4,
		RecoilRecoverRate:  0.6,
		RecoilRecoverDelay: 0.1,
		RecoilSpreadDecay:  3,
		SwayAmplitude:      0.01,
		SwayFrequency:      0.25,
		SwayMouseGain:      0.002,
		SwayEnergyDecay:    2,
		SwayStabilizeTime:  1.5,
		SwayStableFactor:   0.4,
		BreathHoldFactor:   0.2,
		BreathHoldMax:      3,
		BreathRecoverRate:  1,
		ScopeDriftDuration: 8,
		KnifeLungeSpeed:    12,
		KnifeLungeDuration: 0.12,
		BeamPushback:       12,
		BeamMinUpVelocity:  2,
		BeamSteepSin:       0.7,
		BeamDPS:            60,
		BeamAmmoInterval:   0.1,
		MovingSpreadSpeed:  1,
		SpreadAirborne:     2.5,
		SpreadMoving:       1.5,
		SpreadCrouch:       0.7,
		SpreadProne:        0.5,
		MaxRays:            4,
		HeadMultiplier:     2,
		TorsoMultiplier:    1,
		LimbMultiplier:     0.75,

		RocketSpeed:          30,
		RocketRadius:         0.15,
		RocketSplashRadius:   4,
		RocketSplashForce:    14,
		RocketSplashDamage:   80,
		GrenadeSpeed:         16,
		GrenadeUpBoost:       4,
		GrenadeRadius:        0.12,
		GrenadeFuse:          2,
		GrenadeDamping:       0.55,
		GrenadeSplashRadius:  4.5,
		GrenadeSplashForce:   12,
		GrenadeSplashDamage:  90,
		SelfDamageMultiplier: 0.35,
		SplashMaxDeltaV:      20,
		ProjectileLifetime:   6,
		ProjectileSpawnAhead: 0.6,

		GrappleMaxRange:       35,
		GrappleMinDot:         0.9,
		GrappleSwingLength:    18,
		GrapplePull:           6,
		GrappleReleaseBoost:   1.2,
		GrappleReleaseMaxGain: 6,

		BoostPadSpeed:       20,
		SpeedGateMultiplier: 1.3,
		SpeedGateMinSpeed:   12,

		HUDInterval: time.Second / 30,
		NetInterval: time.Second / 20,
	}
}

// DevMultipliers are the two runtime knobs exposed to developers. The hard
// max-speed cap is never scaled.
type DevMultipliers struct {
	Speed   float64 `yaml:"speed"`
	Gravity float64 `yaml:"gravity"`
}

func DefaultDevMultipliers() DevMultipliers {
	return DevMultipliers{Speed: 1, Gravity: 1}
}

// Sanitized replaces non-positive or non-finite multipliers with 1.
func (m DevMultipliers) Sanitized() DevMultipliers {
	ok := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }
	if !ok(m.Speed) {
		m.Speed = 1
	}
	if !ok(m.Gravity) {
		m.Gravity = 1
	}
	return m
}
