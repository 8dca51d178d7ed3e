package record

import "github.com/goccy/go-json"

// GenshinNote is the subset of the Genshin daily note shown by the CLI
type GenshinNote struct {
	CurrentResin         int    `json:"current_resin"`
	MaxResin             int    `json:"max_resin"`
	ResinRecoveryTime    string `json:"resin_recovery_time"`
	FinishedTaskNum      int    `json:"finished_task_num"`
	TotalTaskNum         int    `json:"total_task_num"`
	CurrentExpeditionNum int    `json:"current_expedition_num"`
	MaxExpeditionNum     int    `json:"max_expedition_num"`
	CurrentHomeCoin      int    `json:"current_home_coin"`
	MaxHomeCoin          int    `json:"max_home_coin"`
}

// StarRailExpedition is one dispatched assignment
type StarRailExpedition struct {
	Avatars       []string `json:"avatars"`
	Status        string   `json:"status"`
	RemainingTime int64    `json:"remaining_time"`
	Name          string   `json:"name"`
	FinishTs      int64    `json:"finish_ts"`
}

// StarRailNote is the Star Rail real-time note
type StarRailNote struct {
	CurrentStamina        int                  `json:"current_stamina"`
	MaxStamina            int                  `json:"max_stamina"`
	StaminaRecoverTime    int64                `json:"stamina_recover_time"`
	StaminaFullTs         int64                `json:"stamina_full_ts"`
	AcceptedExpeditionNum int                  `json:"accepted_epedition_num"`
	TotalExpeditionNum    int                  `json:"total_expedition_num"`
	Expeditions           []StarRailExpedition `json:"expeditions"`
	CurrentTrainScore     int                  `json:"current_train_score"`
	MaxTrainScore         int                  `json:"max_train_score"`
	CurrentRogueScore     int                  `json:"current_rogue_score"`
	MaxRogueScore         int                  `json:"max_rogue_score"`
	WeeklyCocoonCnt       int                  `json:"weekly_cocoon_cnt"`
	WeeklyCocoonLimit     int                  `json:"weekly_cocoon_limit"`
	CurrentReserveStamina int                  `json:"current_reserve_stamina"`
	IsReserveStaminaFull  bool                 `json:"is_reserve_stamina_full"`
	CurrentTs             int64                `json:"current_ts"`
}

// Progress is a current/max pair
type Progress struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// ZenlessEnergy is the battery charge and its refill timer
type ZenlessEnergy struct {
	Progress Progress `json:"progress"`
	Restore  int64    `json:"restore"`
	DayType  int      `json:"day_type"`
	Hour     int      `json:"hour"`
	Minute   int      `json:"minute"`
}

// ZenlessNote is the Zenless Zone Zero real-time note
type ZenlessNote struct {
	Energy   ZenlessEnergy `json:"energy"`
	Vitality Progress      `json:"vitality"`
	VhsSale  struct {
		SaleState string `json:"sale_state"`
	} `json:"vhs_sale"`
	CardSign         string `json:"card_sign"`
	BountyCommission *struct {
		Num         int   `json:"num"`
		Total       int   `json:"total"`
		RefreshTime int64 `json:"refresh_time"`
	} `json:"bounty_commission"`
	AbyssRefresh int64 `json:"abyss_refresh"`
}

// DecodeGenshinNote unwraps a DailyNote response
func DecodeGenshinNote(raw json.RawMessage) (*GenshinNote, error) {
	return decodeData[GenshinNote](raw)
}

// DecodeStarRailNote unwraps a StarRailClient.Note response
func DecodeStarRailNote(raw json.RawMessage) (*StarRailNote, error) {
	return decodeData[StarRailNote](raw)
}

// DecodeZenlessNote unwraps a ZenlessClient.Note response
func DecodeZenlessNote(raw json.RawMessage) (*ZenlessNote, error) {
	return decodeData[ZenlessNote](raw)
}
