package httpapi

import (
	"time"

	"github.com/umatomo/predict-api/internal/domain/prediction"
	"github.com/umatomo/predict-api/internal/domain/race"
	"github.com/umatomo/predict-api/internal/domain/social"
	"github.com/umatomo/predict-api/internal/usecase"
)

type createPredictionRequest struct {
	RaceID   string `json:"race_id" validate:"required"`
	FirstID  string `json:"first_id" validate:"required"`
	SecondID string `json:"second_id" validate:"required"`
	ThirdID  string `json:"third_id" validate:"required"`
}

type followRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type sharePredictionRequest struct {
	PredictionID string `json:"prediction_id" validate:"required"`
}

type createRaceRequest struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Location   string   `json:"location" validate:"required,max=120"`
	StartsAt   string   `json:"starts_at" validate:"required"`
	HorseNames []string `json:"horse_names" validate:"required,min=3,dive,required,max=120"`
}

// publishResultRequest placings are nullable: a scratched horse leaves its
// slot null and that slot never awards points.
type publishResultRequest struct {
	FirstID  *string `json:"first_id"`
	SecondID *string `json:"second_id"`
	ThirdID  *string `json:"third_id"`
}

type horseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type raceDTO struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	StartsAt time.Time  `json:"starts_at"`
	Horses   []horseDTO `json:"horses"`
}

type raceResultDTO struct {
	RaceID    string    `json:"race_id"`
	FirstID   *string   `json:"first_id"`
	SecondID  *string   `json:"second_id"`
	ThirdID   *string   `json:"third_id"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

type predictionDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RaceID    string    `json:"race_id"`
	FirstID   string    `json:"first_id"`
	SecondID  string    `json:"second_id"`
	ThirdID   string    `json:"third_id"`
	CreatedAt time.Time `json:"created_at"`
}

type predictionOutcomeDTO struct {
	PredictionID string    `json:"prediction_id"`
	RaceID       string    `json:"race_id"`
	RaceName     string    `json:"race_name"`
	RaceLocation string    `json:"race_location"`
	RaceStartsAt time.Time `json:"race_starts_at"`
	PredictedIDs []string  `json:"predicted_ids"`
	ActualIDs    []string  `json:"actual_ids"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

type pointsDTO struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

type userSummaryDTO struct {
	UserID          string  `json:"user_id"`
	Points          int     `json:"points"`
	HitRate         float64 `json:"hit_rate"`
	PredictionCount int     `json:"prediction_count"`
}

type rankingEntryDTO struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	Points          int     `json:"points"`
	HitRate         float64 `json:"hit_rate"`
	PredictionCount int     `json:"prediction_count"`
}

type groupDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type messageDTO struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

type sharedPredictionDTO struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"group_id"`
	UserID       string    `json:"user_id"`
	PredictionID string    `json:"prediction_id"`
	SharedAt     time.Time `json:"shared_at"`
}

func raceToDTO(item race.Race) raceDTO {
	horses := make([]horseDTO, 0, len(item.Horses))
	for _, h := range item.Horses {
		horses = append(horses, horseDTO{ID: h.ID, Name: h.Name})
	}
	return raceDTO{
		ID:       item.ID,
		Name:     item.Name,
		Location: item.Location,
		StartsAt: item.StartsAt,
		Horses:   horses,
	}
}

func raceResultToDTO(item race.Result) raceResultDTO {
	return raceResultDTO{
		RaceID:    item.RaceID,
		FirstID:   item.FirstID,
		SecondID:  item.SecondID,
		ThirdID:   item.ThirdID,
		Revision:  item.Revision,
		UpdatedAt: item.UpdatedAt,
	}
}

func predictionToDTO(item prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:        item.ID,
		UserID:    item.UserID,
		RaceID:    item.RaceID,
		FirstID:   item.FirstID,
		SecondID:  item.SecondID,
		ThirdID:   item.ThirdID,
		CreatedAt: item.CreatedAt,
	}
}

func outcomeToDTO(item usecase.PredictionOutcome) predictionOutcomeDTO {
	return predictionOutcomeDTO{
		PredictionID: item.PredictionID,
		RaceID:       item.RaceID,
		RaceName:     item.RaceName,
		RaceLocation: item.RaceLocation,
		RaceStartsAt: item.RaceStartsAt,
		PredictedIDs: item.Predicted[:],
		ActualIDs:    item.Actual[:],
		Score:        item.Score,
		CreatedAt:    item.CreatedAt,
	}
}

func rankingEntryToDTO(item usecase.RankingEntry) rankingEntryDTO {
	return rankingEntryDTO{
		Rank:            item.Rank,
		UserID:          item.UserID,
		Points:          item.Points,
		HitRate:         item.HitRate,
		PredictionCount: item.PredictionCount,
	}
}

func groupToDTO(item social.Group) groupDTO {
	return groupDTO{ID: item.ID, Name: item.Name, CreatedAt: item.CreatedAt}
}

func messageToDTO(item social.Message) messageDTO {
	return messageDTO{
		ID:       item.ID,
		GroupID:  item.GroupID,
		SenderID: item.SenderID,
		Content:  item.Content,
		SentAt:   item.SentAt,
	}
}

func sharedPredictionToDTO(item social.SharedPrediction) sharedPredictionDTO {
	return sharedPredictionDTO{
		ID:           item.ID,
		GroupID:      item.GroupID,
		UserID:       item.UserID,
		PredictionID: item.PredictionID,
		SharedAt:     item.SharedAt,
	}
}
