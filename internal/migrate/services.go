package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
)

const servicesType = "services"

type Service struct {
	Icon          string `json:"icon"`
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	DescriptionAr string `json:"description_ar"`
	DescriptionEn string `json:"description_en"`
}

func (s Service) fields() map[string]string {
	return map[string]string{
		"icon":           s.Icon,
		"name_ar":        s.NameAr,
		"name_en":        s.NameEn,
		"description_ar": s.DescriptionAr,
		"description_en": s.DescriptionEn,
	}
}

type MergeResult struct {
	Added   int
	Updated int
	Total   int
}

// LoadServices reads a JSON array of services.
func LoadServices(path string) ([]Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read services: %w", err)
	}

	var services []Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("parse services %s: %w", path, err)
	}

	return services, nil
}

// MergeServices merges services into the "services" content section. An
// entry matches an existing one by icon, case insensitive, then by Arabic
// name. Matches only gain the fields they are missing; the rest are appended.
func MergeServices(ctx context.Context, store *repository.Store, services []Service) (MergeResult, error) {
	var result MergeResult

	_, _, err := store.Contents.Upsert(ctx, servicesType, func(c *models.Content) error {
		result = MergeResult{}

		if c.ID == 0 {
			c.TitleAr = "خدماتنا"
			c.TitleEn = "Our Services"
		}
		if c.Data == nil {
			c.Data = map[string]any{}
		}

		list, existing, err := serviceEntries(c.Data[servicesType])
		if err != nil {
			return err
		}

		for _, svc := range services {
			match := findService(existing, svc)

			if match == nil {
				entry := map[string]any{}
				for k, v := range svc.fields() {
					entry[k] = v
				}
				existing = append(existing, entry)
				list = append(list, entry)
				result.Added++
				continue
			}

			updated := false
			for k, v := range svc.fields() {
				if norm(match[k]) == "" && strings.TrimSpace(v) != "" {
					match[k] = v
					updated = true
				}
			}
			if updated {
				result.Updated++
			}
		}

		c.Data[servicesType] = list
		result.Total = len(list)
		return nil
	})

	return result, err
}

// serviceEntries returns the stored list unchanged along with its object
// items, which are the only ones that can match. Items of any other shape are
// kept in place.
func serviceEntries(v any) ([]any, []map[string]any, error) {
	if v == nil {
		return []any{}, nil, nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("content %q: %s is a %T, not a list", servicesType, servicesType, v)
	}

	list := append([]any{}, items...)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return list, out, nil
}

func findService(existing []map[string]any, svc Service) map[string]any {
	icon := strings.ToLower(strings.TrimSpace(svc.Icon))
	for _, e := range existing {
		if icon != "" && strings.ToLower(norm(e["icon"])) == icon {
			return e
		}
	}

	nameAr := strings.TrimSpace(svc.NameAr)
	for _, e := range existing {
		if nameAr != "" && norm(e["name_ar"]) == nameAr {
			return e
		}
	}

	return nil
}

func norm(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// DefaultServices is the catalogue of services the site launched with.
var DefaultServices = []Service{
	{Icon: "technical_consulting", NameAr: "استشارات تقنية", NameEn: "Technical Consulting",
		DescriptionAr: "تصميم وتنفيذ حلول تقنية متكاملة وفعالة من حيث التكلفة لتبسيط العمليات وتحسين تجربة العملاء."},
	{Icon: "training", NameAr: "توظيف وتدريب", NameEn: "Recruitment & Training",
		DescriptionAr: "تطوير وإدارة برامج تدريب حديثة ترفع من كفاءة الموظفين وتزيد من رضا العملاء."},
	{Icon: "contracts", NameAr: "إدارة العقود", NameEn: "Contract Management",
		DescriptionAr: "إدارة العقود من صياغتها حتى تدقيقها بما يضمن الأمان القانوني والمالي للمشاريع."},
	{Icon: "feasibility", NameAr: "دراسة الجدوى والتخطيط الاستراتيجي", NameEn: "Feasibility & Strategic Planning",
		DescriptionAr: "إعداد دراسات جدوى اقتصادية متكاملة تشمل السوق، المنافسين، العملاء، والعوائد المتوقعة."},
	{Icon: "interior", NameAr: "التصميم الداخلي", NameEn: "Interior Design",
		DescriptionAr: "حلول داخلية تجمع بين الوظيفة والجمال."},
	{Icon: "exterior", NameAr: "التصميم الخارجي", NameEn: "Exterior Design",
		DescriptionAr: "واجهات وهياكل حديثة ومستدامة."},
	{Icon: "landscape", NameAr: "تصميم المناظر الطبيعية", NameEn: "Landscape Design",
		DescriptionAr: "إنشاء مساحات خضراء ملهمة."},
	{Icon: "urban", NameAr: "التخطيط الحضري", NameEn: "Urban Planning",
		DescriptionAr: "بناء تجارب حضرية تتمحور حول الإنسان."},
	{Icon: "corporate_relations", NameAr: "إدارة علاقات الشركات", NameEn: "Corporate Relations Management",
		DescriptionAr: "تطوير استراتيجيات لبناء روابط قوية مع العملاء والشركاء والمستثمرين."},
}
