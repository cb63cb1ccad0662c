// Package content holds the compiled-in copy, images and practice details
// rendered on the site.
package content

import (
	"fmt"

	"github.com/wolfman30/blake-psychology-site/internal/contact"
)

// FAQEntries is the fixed length of the FAQ list.
const FAQEntries = 5

// FAQEntry is one question/answer pair of the accordion.
type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Hero is the full-height banner at the top of the page.
type Hero struct {
	Headline     []string `yaml:"headline"`
	Subheadline  string   `yaml:"subheadline"`
	CallToAction string   `yaml:"call_to_action"`
	ImageURL     string   `yaml:"image_url"`
}

// About introduces the clinician.
type About struct {
	Paragraphs  []string `yaml:"paragraphs"`
	Experience  string   `yaml:"experience"`
	PortraitURL string   `yaml:"portrait_url"`
}

// Service is one card of the "Areas of Focus" grid.
type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

// Fee is a session type and its price.
type Fee struct {
	Label       string `yaml:"label"`
	PriceCents  int    `yaml:"price_cents"`
	DurationMin int    `yaml:"duration_min"`
}

// Price formats the fee as whole dollars.
func (f Fee) Price() string {
	return fmt.Sprintf("$%d", f.PriceCents/100)
}

// Duration formats the session length.
func (f Fee) Duration() string {
	return fmt.Sprintf("%d minutes", f.DurationMin)
}

// ContactDetails are the practice's published contact channels.
type ContactDetails struct {
	Phone       string   `yaml:"phone"`
	Email       string   `yaml:"email"`
	Address     string   `yaml:"address"`
	OfficeHours []string `yaml:"office_hours"`
	Intro       string   `yaml:"intro"`
}

// Site is everything the page renders that is not form state.
type Site struct {
	Clinician      string         `yaml:"clinician"`
	Credentials    string         `yaml:"credentials"`
	Hero           Hero           `yaml:"hero"`
	About          About          `yaml:"about"`
	Services       []Service      `yaml:"services"`
	Fees           []Fee          `yaml:"fees"`
	FAQ            []FAQEntry     `yaml:"-"`
	Contact        ContactDetails `yaml:"contact"`
	ConsentLabel   string         `yaml:"consent_label"`
	Acknowledgment string         `yaml:"-"`
	Copyright      string         `yaml:"copyright"`
}

// Default returns the practice's content. Each call returns independent
// slices, so callers cannot mutate what another caller sees.
func Default() Site {
	return Site{
		Clinician:   "Dr. Serena Blake",
		Credentials: "PsyD, Clinical Psychologist",
		Hero: Hero{
			Headline: []string{
				"Psychological Care for",
				"Change, Insight, and Well-Being",
			},
			Subheadline:  "Offering individual psychotherapy for adults via telehealth in Los Angeles and most U.S. states through PSYPACT participation",
			CallToAction: "Schedule a Consultation",
			ImageURL:     "https://cognizant.scene7.com/is/content/cognizant/Ocean-Homepage-1468x512",
		},
		About: About{
			Paragraphs: []string{
				"Finding time and opportunities to care for ourselves can be incredibly challenging in today's busy and demanding world. I believe therapy offers a dedicated space for self-care, providing the support and tools needed to improve this essential practice.",
				"Dr. Serena Blake is a licensed clinical psychologist (PsyD) based in Los Angeles, CA, with eight years of experience and over 500 client sessions. She blends evidence-based approaches like cognitive-behavioral therapy and mindfulness with compassionate, personalized care to help you overcome anxiety, strengthen relationships, and heal from trauma.",
				"Whether you meet in her Maplewood Drive office or connect virtually via Zoom, Dr. Blake is committed to creating a safe, supportive space for you to thrive. Her integrative approach draws from cognitive-behavioral therapy, mindfulness-based interventions, and person-centered therapy, always tailored to each individual's unique needs and circumstances.",
			},
			Experience:  "8 years of practice • 500+ client sessions",
			PortraitURL: "https://img.freepik.com/free-photo/portrait-young-businesswoman-holding-eyeglasses-hand-against-gray-backdrop_23-2148029483.jpg",
		},
		Services: []Service{
			{
				Title:       "Anxiety & Stress Management",
				Description: "Life's challenges can sometimes feel overwhelming, leading to persistent feelings of worry, stress, or disconnection. Through evidence-based approaches including CBT and mindfulness techniques, we'll work together to develop effective coping strategies and rediscover your inner strength and resilience.",
				ImageURL:    "https://images.pexels.com/photos/6749778/pexels-photo-6749778.jpeg?auto=compress&cs=tinysrgb&w=800&h=800",
			},
			{
				Title:       "Relationship Counseling",
				Description: "Whether navigating relationship challenges, communication difficulties, or major life transitions, these periods can bring both opportunities and stress. Together, we'll explore your values, strengthen communication skills, and develop strategies to navigate change with confidence and authenticity.",
				ImageURL:    "https://images.pexels.com/photos/7176319/pexels-photo-7176319.jpeg?auto=compress&cs=tinysrgb&w=800&h=800",
			},
			{
				Title:       "Trauma Recovery",
				Description: "Traumatic experiences can have lasting impacts on our sense of safety and well-being. Using trauma-informed approaches, we'll create a safe space to process these experiences at your own pace, helping you reclaim your sense of empowerment and move forward with greater peace and resilience.",
				ImageURL:    "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=800&q=80",
			},
		},
		Fees: []Fee{
			{Label: "Individual Session", PriceCents: 20000, DurationMin: 50},
			{Label: "Couples Session", PriceCents: 24000, DurationMin: 50},
		},
		FAQ: []FAQEntry{
			{
				Question: "Do you accept insurance?",
				Answer:   "No, I do not accept insurance directly. However, I provide a detailed superbill that you can submit to your insurance company for potential reimbursement. Many clients find they can recover a significant portion of their session fees through out-of-network benefits.",
			},
			{
				Question: "Are online sessions available?",
				Answer:   "Yes, I offer virtual sessions via Zoom on Mondays, Wednesdays, and Fridays from 1 PM to 5 PM. Online therapy can be just as effective as in-person sessions and offers greater flexibility for busy schedules.",
			},
			{
				Question: "What is your cancellation policy?",
				Answer:   "I require 24-hour notice for cancellations. Sessions cancelled with less than 24 hours notice will be charged the full session fee. This policy helps ensure that appointment times remain available for all clients.",
			},
			{
				Question: "What are your session fees?",
				Answer:   "Individual therapy sessions are $200 per 50-minute session. Couples therapy sessions are $240 per 50-minute session. Payment is due at the time of service, and I accept cash, check, or credit card.",
			},
			{
				Question: "How do I know if therapy is right for me?",
				Answer:   "Therapy can be beneficial for anyone looking to better understand themselves, work through challenges, or improve their overall well-being. I offer a brief phone consultation to discuss your needs and determine if we're a good fit.",
			},
		},
		Contact: ContactDetails{
			Phone:   "(323) 555-0192",
			Email:   "serena@blakepsychology.com",
			Address: "1287 Maplewood Drive, Los Angeles, CA 90026",
			OfficeHours: []string{
				"In-person: Tue & Thu, 10 AM–6 PM",
				"Virtual via Zoom: Mon, Wed & Fri, 1 PM–5 PM",
			},
			Intro: "Taking the first step toward therapy can feel daunting, but you don't have to do it alone. I'm here to support you on your journey toward greater well-being and self-discovery.",
		},
		ConsentLabel:   "I agree to be contacted by Dr. Serena Blake regarding my inquiry",
		Acknowledgment: contact.Acknowledgment,
		Copyright:      "© 2024 Dr. Serena Blake. All rights reserved.",
	}
}

// FAQEntryAt returns entry i, or false when i is out of range.
func (s Site) FAQEntryAt(i int) (FAQEntry, bool) {
	if i < 0 || i >= len(s.FAQ) {
		return FAQEntry{}, false
	}
	return s.FAQ[i], true
}
