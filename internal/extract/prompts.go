package extract

const extractionSystemPrompt = `You extract structured business-formation data from voice call transcripts.

The transcripts come from phone conversations between a customer starting a
business and a voice assistant guiding them through formation. Speech-to-text
output is noisy: expect filler words, restarts, and transcription errors.

Rules:
- Return a single flat JSON object mapping field names to string values.
- Only include fields the customer actually stated. Never guess or infer.
- Use the exact field names listed in the instruction.
- Omit a field entirely rather than returning "unknown" or an empty value.
- Return valid JSON only. No markdown fences, no commentary.`

// stageInstructions tell the model which fields each call stage collects.
var stageInstructions = map[int]string{
	1: `This is a Stage 1 (Foundation) call. Extract any of these fields:
customer_name, customer_email, customer_phone, preferred_contact_method,
mailing_address, city, state_of_residence, zip_code, best_time_to_call,
business_name, entity_type, state_of_operation, registered_agent_name,
registered_agent_address, business_address, business_purpose, member_structure,
ownership_split, ein_status, formation_deadline, name_availability_checked,
industry, business_description, products_services, target_customers,
home_based_or_commercial, previous_business_experience, referral_source`,

	2: `This is a Stage 2 (Brand Identity) call. Extract any of these fields:
brand_personality, brand_values, brand_mission, brand_voice, tagline,
color_preferences, logo_style, font_preferences, inspiration_brands,
brand_story, domain_name, domain_purchased, website_platform, website_pages,
social_media_handles, primary_social_platform, google_business_profile,
email_domain, content_plan, logo_status, business_card_design, signage_needs,
photography_needs, brand_guidelines, packaging_design, uniform_merch_plans`,

	3: `This is a Stage 3 (Operations) call. Extract any of these fields:
business_bank_account, accounting_software, bookkeeping_plan,
business_credit_card, startup_budget, monthly_budget, funding_source,
pricing_structure, payment_methods, sales_tax_registration, business_hours,
service_area, suppliers_vendors, equipment_needs, software_tools,
inventory_plan, fulfillment_method, hiring_plan, insurance_needs,
business_license_status, local_permits, professional_certifications,
contracts_needed, privacy_policy_needed, terms_of_service_needed,
trademark_interest, annual_report_awareness`,

	4: `This is a Stage 4 (Launch) call. Extract any of these fields:
launch_date, launch_budget, marketing_channels, advertising_plan,
promotional_offer, email_list_plan, referral_program, networking_plan,
local_partnerships, pr_outreach, ideal_customer_profile, lead_generation_plan,
sales_process, follow_up_system, crm_tool, review_strategy, loyalty_program,
seasonal_strategy, growth_goals, website_live, first_customer_plan,
grand_opening_event, launch_announcement_copy, success_metrics,
first_90_days_plan, support_needs, ongoing_coaching_interest`,
}
