package handler

// envelope wraps every successful response: {"success": true, "data": ...}.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorResponse documents the failure envelope rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"     validate:"required,oneof=admin volunteer"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type machineAuthRequest struct {
	MachineID string `json:"machine_id" validate:"required"`
	APIKey    string `json:"api_key"    validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type verifyResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Machines ---

type positionRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type registerMachineRequest struct {
	Name             string          `json:"name"              validate:"required"`
	Address          string          `json:"address"           validate:"required"`
	Location         positionRequest `json:"location"          validate:"required"`
	OperationalHours string          `json:"operational_hours"`
	Capacity         *int            `json:"available_capacity" validate:"omitempty,gte=0,lte=100"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=operational maintenance offline"`
}

type positionResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type machineResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Address           string           `json:"address"`
	Location          positionResponse `json:"location"`
	AvailableCapacity int              `json:"available_capacity"`
	AvailableFood     int              `json:"available_food"`
	Status            string           `json:"status"`
	OperationalHours  string           `json:"operational_hours,omitempty"`
	LastUpdated       string           `json:"last_updated"`
}

type locatedMachineResponse struct {
	machineResponse
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type locateResponse struct {
	Intent            string                   `json:"intent"`
	Degraded          bool                     `json:"degraded"`
	Machines          []locatedMachineResponse `json:"machines"`
	AlternativeIntent string                   `json:"alternative_intent,omitempty"`
}

// --- Telemetry ---

type telemetryRequest struct {
	AvailableCapacity int    `json:"available_capacity"`
	ErrorCode         string `json:"error_code"`
	// Timestamp is RFC 3339; the server clock is used when absent.
	Timestamp string `json:"timestamp" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// --- Food ---

type donateRequest struct {
	Quantity   int    `json:"quantity"    validate:"required,gte=1,lte=100"`
	ExpiryDate string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

type donateResponse struct {
	Donated       int `json:"donated"`
	AvailableFood int `json:"available_food"`
}

type collectRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=2"`
}

type collectResponse struct {
	Dispensed []string `json:"dispensed_item_ids"`
	Count     int      `json:"count"`
}

type expiredItemResponse struct {
	ID         string `json:"id"`
	MachineID  string `json:"machine_id"`
	ExpiryDate string `json:"expiry_date"`
	DonatedAt  string `json:"donated_at"`
}
