package catalog

import "github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"

// VersionFeedback is the earlier 5-step product feedback flow, kept as a
// second deployable catalog. The engine is catalog-agnostic; this version
// mainly exists so deployments can switch flows without code changes.
const VersionFeedback = "feedback5"

func feedbackQuestions() []model.Question {
	return []model.Question{
		{
			ID:          1,
			Prompt:      "👋 ¡Gracias por ayudarnos a mejorar!\n\n¿Qué tan probable es que recomiende nuestro servicio a un amigo?",
			Kind:        model.KindButtons,
			Options:     []string{"No muy probable", "Quizás", "Muy probable"},
			TargetField: "q1_nps",
		},
		{
			ID:          2,
			Prompt:      "🤔 ¿Por qué? Cuéntenos el motivo principal de su respuesta." + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q2_reason",
		},
		{
			ID:          3,
			Prompt:      "⚙️ ¿Qué deberíamos priorizar mejorar?",
			Kind:        model.KindButtons,
			Options:     []string{"Diseño", "Velocidad", "Funciones"},
			TargetField: "q3_priority",
		},
		{
			ID:          4,
			Prompt:      "🪄 Si tuviera una varita mágica, ¿qué función agregaría al servicio?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q4_magic_wand",
		},
		{
			ID:          5,
			Prompt:      "📣 ¿Cómo se enteró de nosotros?",
			Kind:        model.KindList,
			Options:     []string{"Redes sociales", "Un amigo", "Publicidad", "Búsqueda en internet", "Otro"},
			TargetField: "q5_discovery",
		},
	}
}
