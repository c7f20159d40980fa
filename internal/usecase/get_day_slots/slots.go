package get_day_slots

import (
	"sort"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	bsClient "github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// buildMarkedGrid строит полную сетку рабочего дня бизнеса с флагами
// доступности. Сетка идет от открытия с шагом настроек; стартовые минуты
// вне сетки (например, сразу после записи нестандартной длины) добавляются
// отдельными доступными слотами.
func buildMarkedGrid(schedule bsClient.DaySchedule, stepMinutes, durationMinutes int, candidates map[int]bool) ([]domain.DaySlot, error) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return []domain.DaySlot{}, nil
	}

	open, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return nil, err
	}
	close, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return nil, err
	}

	openMinutes, err := open.Minutes()
	if err != nil {
		return nil, err
	}
	closeMinutes, err := close.Minutes()
	if err != nil {
		return nil, err
	}

	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	minutes := make([]int, 0, len(candidates))
	onGrid := make(map[int]bool)

	for minute := openMinutes; minute+durationMinutes <= closeMinutes; minute += stepMinutes {
		minutes = append(minutes, minute)
		onGrid[minute] = true
	}

	for minute := range candidates {
		if !onGrid[minute] {
			minutes = append(minutes, minute)
		}
	}

	sort.Ints(minutes)

	slots := make([]domain.DaySlot, 0, len(minutes))
	for _, minute := range minutes {
		label, err := types.NewTimeStringFromMinutes(minute)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.DaySlot{
			Time:      label.String(),
			Available: candidates[minute],
		})
	}

	return slots, nil
}

// buildUnion строит объединение доступных времен по всем мастерам:
// только доступные слоты, без дублей, по возрастанию времени
func buildUnion(candidates map[int]bool) ([]domain.DaySlot, error) {
	minutes := make([]int, 0, len(candidates))
	for minute := range candidates {
		minutes = append(minutes, minute)
	}
	sort.Ints(minutes)

	slots := make([]domain.DaySlot, 0, len(minutes))
	for _, minute := range minutes {
		label, err := types.NewTimeStringFromMinutes(minute)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.DaySlot{Time: label.String(), Available: true})
	}

	return slots, nil
}
