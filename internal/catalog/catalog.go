// Package catalog holds the static clinic content rendered on the landing
// page: the price list and the specialists.
package catalog

// Service is one line of the price list.
type Service struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// Specialist is a staff card on the landing page. Image is a file name under
// /static/images.
type Specialist struct {
	Name           string `json:"name"`
	Position       string `json:"position"`
	Specialization string `json:"specialization"`
	Image          string `json:"image"`
	Experience     string `json:"experience"`
}

var services = []Service{
	{"Прессотерапия", "от 1 500 ₽", "Аппаратная косметология"},
	{"Пилинг срединный", "от 4 700 ₽", "Пилинги"},
	{"Биоревитализация лица", "от 7 000 ₽", "Инъекционные процедуры"},
	{"Мезотерапия лица", "от 5 000 ₽", "Инъекционные процедуры"},
	{"Мезотерапия головы", "от 4 800 ₽", "Инъекционные процедуры"},
	{"Фотолечение / фототерапия", "от 3 200 ₽", "Аппаратная косметология"},
	{"Уходовая линия Line Repair (CHRISTINA)", "от 4 900 ₽", "Косметология"},
	{"Чистка лица атравматическая", "от 5 700 ₽", "Косметология"},
	{"Чистка лица комбинированная", "от 3 800 ₽", "Косметология"},
	{"Чистка лица ультразвуковая", "от 2 000 ₽", "Косметология"},
	{"Пилинг поверхностный", "от 2 500 ₽", "Пилинги"},
	{"LPG-массаж", "от 700 ₽", "Массажи лица"},
	{"Пилинг карбоновый", "от 3 500 ₽", "Пилинги"},
	{"Ручной массаж лица", "от 1 800 ₽", "Массажи лица"},
	{"RF-лифтинг", "от 2 300 ₽", "Аппаратная косметология"},
	{"Пилинг алмазный", "от 3 000 ₽", "Пилинги"},
	{"Вакуумный массаж лица", "от 2 300 ₽", "Массажи лица"},
	{"Альгинатная маска", "от 1 200 ₽", "Косметология"},
	{"Регенерация кожи", "от 2 800 ₽", "Косметология"},
	{"Глубокое увлажнение", "от 3 700 ₽", "Косметология"},
	{"Безинъекционная мезотерапия", "от 2 200 ₽", "Косметология"},
	{"Лазерная эпиляция", "от 600 ₽", "Аппаратная косметология"},
	{"Карбокситерапия", "от 2 500 ₽", "Инъекционные процедуры"},
	{"Микротоковая терапия", "от 2 200 ₽", "Аппаратная косметология"},
}

var specialists = []Specialist{
	{"Елена Васильева", "Главный врач", "врач-косметолог", "doctor1.jpg", "15 лет опыта"},
	{"Виктория Коваленко", "Врач-косметолог", "Специалист по инъекционным методикам", "doctor2.jpg", "10 лет опыта"},
	{"Ксения Михайлова", "Врач-косметолог", "Специалист по аппаратной косметологии", "doctor3.jpg", "8 лет опыта"},
	{"Ольга Андреева", "Врач-косметолог", "Специалист по пилингам и уходам", "doctor4.jpg", "12 лет опыта"},
}

// Services returns a copy of the price list in display order.
func Services() []Service {
	return append([]Service(nil), services...)
}

// Specialists returns a copy of the specialist cards in display order.
func Specialists() []Specialist {
	return append([]Specialist(nil), specialists...)
}

// Categories returns the distinct service categories in first-seen order.
func Categories() []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for _, s := range services {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}

// ServiceNames lists every service name; the booking form offers these.
func ServiceNames() []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Name
	}
	return out
}
