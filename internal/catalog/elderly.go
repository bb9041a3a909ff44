package catalog

import "github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"

// VersionElderly is the 27-question elderly experience study.
const VersionElderly = "elderly27"

const audioHint = "\n\n💬 Puede responder por texto o audio 🎤"

func elderlyQuestions() []model.Question {
	return []model.Question{
		{
			ID:          1,
			Prompt:      "🏃‍♀️ ¡Hola! Vamos a conocer mejor su experiencia de vida.\n\n¿En qué actividades productivas que le generen ingresos o no (personales, laborales, familiares, comunitarias) participa actualmente?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q1_actividades_productivas",
		},
		{
			ID:          2,
			Prompt:      "🌟 ¿De qué manera siente que su experiencia y conocimientos siguen aportando valor en su vida diaria?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q2_experiencia_valor",
		},
		{
			ID:          3,
			Prompt:      "📊 En una escala de 1 a 5, ¿qué tan productivo(a) se siente hoy en día?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Nada", "2 - Poco", "3 - Moderado", "4 - Muy", "5 - Extremo"},
			TargetField: "q3_nivel_productividad",
		},
		{
			ID:          4,
			Prompt:      "📱 ¿Utiliza herramientas digitales (celular, internet, redes sociales, aplicaciones) en su vida diaria?",
			Kind:        model.KindButtons,
			Options:     []string{"Sí, frecuentemente", "Ocasionalmente", "No las uso"},
			TargetField: "q4_uso_tecnologia",
		},
		{
			ID:          5,
			Prompt:      "🎓 ¿Qué tan fácil o difícil le resulta aprender nuevas tecnologías? Si le resulta difícil, ¿podría decirnos cuáles son los motivos?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q5_aprendizaje_tecnologia",
		},
		{
			ID:          6,
			Prompt:      "🌐 En una escala de 1 a 5, ¿qué tanto cree que el mundo digital le ha abierto oportunidades de participación?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Ninguna", "2 - Pocas", "3 - Algunas", "4 - Muchas", "5 - Muchísimas"},
			TargetField: "q6_oportunidades_digitales",
		},
		{
			ID:          7,
			Prompt:      "🎯 ¿Qué actividades le dan un sentido de propósito en esta etapa de su vida?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q7_actividades_proposito",
		},
		{
			ID:          8,
			Prompt:      "👨‍👩‍👧‍👦 ¿Qué tan importante es para usted sentirse útil dentro de su familia o comunidad?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q8_importancia_utilidad",
		},
		{
			ID:          9,
			Prompt:      "🎯 En una escala de 1 a 5, ¿cómo calificaría el propósito que siente en su vida actualmente?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Sin propósito", "2 - Poco", "3 - Moderado", "4 - Mucho", "5 - Muy fuerte"},
			TargetField: "q9_nivel_proposito",
		},
		{
			ID:          10,
			Prompt:      "🏠 ¿Actualmente está viviendo solo o comparte vivienda con algún familiar o amigo?",
			Kind:        model.KindButtons,
			Options:     []string{"Vivo solo/a", "Vivo acompañado/a", "Prefiero no decir"},
			TargetField: "q10_situacion_vivienda",
		},
		{
			ID:          11,
			Prompt:      "👥 ¿Quiénes hacen parte de su entorno más cercano? (Hijos, nietos, amigos, etc.)" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q11_entorno_cercano",
		},
		{
			ID:          12,
			Prompt:      "📅 ¿Con qué frecuencia comparte tiempo con su familia o amigos?",
			Kind:        model.KindList,
			Options:     []string{"Diariamente", "Varias x semana", "1 vez x semana", "Algunas x mes", "Raramente", "Nunca"},
			TargetField: "q12_frecuencia_social",
		},
		{
			ID:          13,
			Prompt:      "😔 ¿Ha sentido soledad o abandono en los últimos meses?",
			Kind:        model.KindButtons,
			Options:     []string{"Sí, con frecuencia", "A veces", "No"},
			TargetField: "q13_soledad",
			FollowUp: &model.FollowUpRule{
				Trigger:     "Sí, con frecuencia",
				Prompt:      "💭 ¿En qué circunstancias ha sentido esa soledad?" + audioHint,
				TargetField: "q13b_circunstancias_soledad",
			},
		},
		{
			ID:          14,
			Prompt:      "🤝 En una escala de 1 a 5, ¿cómo describiría su nivel de compañía y apoyo social?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Sin apoyo", "2 - Poco", "3 - Moderado", "4 - Mucho", "5 - Excelente"},
			TargetField: "q14_nivel_apoyo_social",
		},
		{
			ID:          15,
			Prompt:      "🎨 ¿Qué actividades disfruta más en su día a día? (hobbies, viajes, entretenimiento, encuentro con amigos)" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q15_actividades_disfrute",
		},
		{
			ID:          16,
			Prompt:      "⏰ ¿Con qué frecuencia dedica tiempo a cosas que le producen placer o alegría?",
			Kind:        model.KindList,
			Options:     []string{"Diariamente", "Varias x semana", "1 vez x semana", "Algunas x mes", "Raramente", "Nunca"},
			TargetField: "q16_frecuencia_placer",
		},
		{
			ID:          17,
			Prompt:      "😊 En una escala de 1 a 5, ¿qué tan satisfecho(a) está con sus espacios de disfrute personal?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Nada", "2 - Poco", "3 - Moderado", "4 - Muy", "5 - Completo"},
			TargetField: "q17_satisfaccion_disfrute",
		},
		{
			ID:          18,
			Prompt:      "🎂 ¿Cuántos años tiene?",
			Kind:        model.KindList,
			Options:     []string{"55-60 años", "61-65 años", "66-70 años", "71-75 años", "76-80 años", "81-85 años", "86-90 años", "Más de 90 años", "Prefiero no decir"},
			TargetField: "q18_edad",
		},
		{
			ID:          19,
			Prompt:      "😟 ¿Alguna vez ha sentido que lo han tratado diferente por su edad? Si es así, ¿en cuáles situaciones?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q19_experiencias_discriminacion",
		},
		{
			ID:          20,
			Prompt:      "🏢 ¿En qué espacios (familia, trabajo, comunidad, servicios) ha percibido discriminación por su edad?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q20_espacios_discriminacion",
		},
		{
			ID:          21,
			Prompt:      "📊 En una escala de 1 a 5, ¿qué tan frecuente considera que enfrenta discriminación por edad?\n\nSeleccione una opción:",
			Kind:        model.KindScale,
			Options:     []string{"1 - Nunca", "2 - Raro", "3 - Ocasional", "4 - Frecuente", "5 - Muy frecuente"},
			TargetField: "q21_frecuencia_discriminacion",
		},
		{
			ID:          22,
			Prompt:      "💭 ¿Hay alguna frase que resuma su forma de ver la vida en esta etapa?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q22_filosofia_vida",
		},
		{
			ID:          23,
			Prompt:      "👶 ¿Qué mensaje le daría a las nuevas generaciones?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q23_mensaje_generaciones",
		},
		{
			ID:          24,
			Prompt:      "💬 ¿Qué más le gustaría compartir que no le haya preguntado?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q24_compartir_adicional",
		},
		{
			ID:          25,
			Prompt:      "⭐ ¿Hay algo que considere importante destacar sobre sus experiencias recientes?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q25_experiencias_recientes",
		},
		{
			ID:          26,
			Prompt:      "🏥 ¿Cuál servicio considera que necesita y no lo encuentra o nadie se lo está ofreciendo?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q26_servicios_necesarios",
		},
		{
			ID:          27,
			Prompt:      "🦽 ¿Hay alguna actividad que no pueda realizar por alguna limitación de tipo físico?" + audioHint,
			Kind:        model.KindOpen,
			TargetField: "q27_limitaciones_fisicas",
		},
	}
}
