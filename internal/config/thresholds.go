package config

// Thresholds — все настраиваемые константы модели оценки расписания.
// Значения по умолчанию соответствуют продовой модели; переопределяются
// через ENV на уровне деплоя, алгоритм их не трогает.
type Thresholds struct {
	// Дневная нагрузка по обязательным занятиям.
	DailyMandatoryHardHours float64 // >8ч → −20
	DailyMandatorySoftHours float64 // >6ч..≤8ч → −10
	DailyMandatoryHardPen   int
	DailyMandatorySoftPen   int

	// Кластеры занятий подряд.
	ClusterGapMinutes float64 // «короткий» разрыв между парами, <15 мин
	ClusterRunLength  int     // сколько коротких разрывов подряд считается кластером
	ClusterPen        int

	// Нереалистичный переход между занятиями: 0 < gap < 5 мин.
	TransitionMinMinutes float64

	// Пересечение работы и учёбы.
	OverlapPen int

	// Недельная суммарная нагрузка (учёба + работа).
	WeeklyHardHours float64 // >50ч → −20
	WeeklySoftHours float64 // >40ч..≤50ч → −10
	WeeklyHardPen   int
	WeeklySoftPen   int

	// Серия тяжёлых дней подряд.
	HeavyDayHours        float64 // день считается тяжёлым при >6ч суммарно
	ConsecutiveHeavyDays int
	ConsecutiveHeavyPen  int

	// Границы диапазонов итогового балла.
	BandFeasibleMin int // ≥85 → feasible
	BandStrainedMin int // ≥60 → strained, ниже — at_risk

	// Рабочее окно для расчёта свободных блоков (пн–пт).
	WorkWindowStartHour int
	WorkWindowEndHour   int

	// Проекция риска.
	TrendWindow          int // сколько последних недельных оценок читаем
	HighConflictsForRisk int // сколько high-конфликтов достаточно при strained
	MajorFactorImpact    int // факторы с impact ≤ этого попадают в причины риска

	// Отчёт по портфелю.
	ReportCaseCap int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		DailyMandatoryHardHours: 8,
		DailyMandatorySoftHours: 6,
		DailyMandatoryHardPen:   -20,
		DailyMandatorySoftPen:   -10,

		ClusterGapMinutes: 15,
		ClusterRunLength:  3,
		ClusterPen:        -15,

		TransitionMinMinutes: 5,

		OverlapPen: -25,

		WeeklyHardHours: 50,
		WeeklySoftHours: 40,
		WeeklyHardPen:   -20,
		WeeklySoftPen:   -10,

		HeavyDayHours:        6,
		ConsecutiveHeavyDays: 3,
		ConsecutiveHeavyPen:  -15,

		BandFeasibleMin: 85,
		BandStrainedMin: 60,

		WorkWindowStartHour: 9,
		WorkWindowEndHour:   17,

		TrendWindow:          3,
		HighConflictsForRisk: 2,
		MajorFactorImpact:    -15,

		ReportCaseCap: 5,
	}
}

// ThresholdsFromEnv — дефолты плюс точечные переопределения из окружения.
func ThresholdsFromEnv() Thresholds {
	t := DefaultThresholds()
	t.DailyMandatoryHardHours = getenvFloat("TH_DAILY_MANDATORY_HARD_HOURS", t.DailyMandatoryHardHours)
	t.DailyMandatorySoftHours = getenvFloat("TH_DAILY_MANDATORY_SOFT_HOURS", t.DailyMandatorySoftHours)
	t.ClusterGapMinutes = getenvFloat("TH_CLUSTER_GAP_MINUTES", t.ClusterGapMinutes)
	t.TransitionMinMinutes = getenvFloat("TH_TRANSITION_MIN_MINUTES", t.TransitionMinMinutes)
	t.WeeklyHardHours = getenvFloat("TH_WEEKLY_HARD_HOURS", t.WeeklyHardHours)
	t.WeeklySoftHours = getenvFloat("TH_WEEKLY_SOFT_HOURS", t.WeeklySoftHours)
	t.HeavyDayHours = getenvFloat("TH_HEAVY_DAY_HOURS", t.HeavyDayHours)
	t.BandFeasibleMin = getenvInt("TH_BAND_FEASIBLE_MIN", t.BandFeasibleMin)
	t.BandStrainedMin = getenvInt("TH_BAND_STRAINED_MIN", t.BandStrainedMin)
	return t
}
