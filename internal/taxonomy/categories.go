package taxonomy

var expense = []Category{
	{
		ID: "food", Name: "Food", Icon: "Utensils", Color: "#eecf8e",
		Subcategories: []SubCategory{
			{"breakfast", "Breakfast", "Coffee"},
			{"lunch", "Lunch", "Sandwich"},
			{"dinner", "Dinner", "Beef"},
			{"snack", "Snacks", "Cookie"},
			{"drink", "Drinks", "CupSoda"},
			{"alcohol", "Alcohol", "Wine"},
			{"fruit", "Fruit", "Apple"},
			{"ingredients", "Groceries", "Carrot"},
			{"party", "Dining out", "Users"},
			{"other_food", "Other food", "Utensils"},
		},
	},
	{
		ID: "transport", Name: "Transport", Icon: "Car", Color: "#5e8fd9",
		Subcategories: []SubCategory{
			{"bus", "Bus", "Bus"},
			{"train", "Train", "TrainFront"},
			{"mrt", "Metro", "TramFront"},
			{"taxi", "Taxi", "Taxi"},
			{"parking_fee", "Parking", "CircleP"},
			{"toll", "Tolls", "Road"},
			{"maintenance", "Maintenance", "Wrench"},
			{"car_exp", "Car", "Car"},
			{"scooter_exp", "Scooter", "Bike"},
			{"bike_exp", "Bicycle", "Bike"},
			{"flight", "Flights", "Plane"},
			{"ship", "Ferry", "Ship"},
			{"other_transport", "Other transport", "Navigation"},
		},
	},
	{
		ID: "daily", Name: "Household", Icon: "ShoppingBasket", Color: "#8fb37a",
		Subcategories: []SubCategory{
			{"consumables", "Consumables", "SprayCan"},
			{"home_supplies", "Home supplies", "Bed"},
			{"appliances", "Appliances", "Tv"},
			{"3c", "Electronics", "Smartphone"},
			{"furniture", "Furniture", "Lamp"},
			{"other_daily", "Other household", "Box"},
		},
	},
	{
		ID: "medical", Name: "Health", Icon: "Hospital", Color: "#d9534f",
		Subcategories: []SubCategory{
			{"clinic", "Clinic", "Stethoscope"},
			{"medicine", "Medicine", "Pill"},
			{"dentist", "Dentist", "Dna"},
			{"checkup", "Checkup", "Activity"},
			{"supplements", "Supplements", "HeartPulse"},
			{"other_medical", "Other health", "PlusSquare"},
		},
	},
	{
		ID: "kids", Name: "Kids", Icon: "Baby", Color: "#d9a7c7",
		Subcategories: []SubCategory{
			{"tuition", "Childcare", "School"},
			{"cram_school", "Classes", "Palette"},
			{"toys", "Toys", "Gamepad"},
			{"books", "Books", "BookOpen"},
			{"baby_supplies", "Baby supplies", "Milk"},
			{"kids_medical", "Kids health", "Baby"},
			{"other_kids", "Other kids", "Heart"},
		},
	},
	{
		ID: "fixed", Name: "Fixed costs", Icon: "CalendarCheck", Color: "#4A90E2",
		Subcategories: []SubCategory{
			{"rent", "Rent", "Home"},
			{"mortgage", "Mortgage", "Building"},
			{"management", "Building fees", "Key"},
			{"water", "Water", "Droplets"},
			{"electricity", "Electricity", "Zap"},
			{"gas", "Gas", "Flame"},
			{"telecom", "Phone & internet", "Wifi"},
			{"insurance", "Insurance", "ShieldCheck"},
			{"monthly_parking", "Monthly parking", "CircleParking"},
			{"other_fixed", "Other fixed", "PlusSquare"},
		},
	},
	{
		ID: "entertainment", Name: "Leisure", Icon: "Gamepad2", Color: "#9b6cc3",
		Subcategories: []SubCategory{
			{"movie", "Movies", "Film"},
			{"streaming", "Subscriptions", "Music"},
			{"game", "Games", "Joystick"},
			{"exhibition", "Exhibitions", "Ticket"},
			{"attractions", "Attractions", "MapPin"},
			{"lodging", "Travel lodging", "Hotel"},
			{"souvenirs", "Souvenirs", "Gift"},
			{"other_entertainment", "Other leisure", "Compass"},
		},
	},
	{
		ID: "shopping", Name: "Shopping", Icon: "ShoppingBag", Color: "#c9707e",
		Subcategories: []SubCategory{
			{"clothes", "Clothes", "Shirt"},
			{"shoes", "Shoes", "Footprints"},
			{"accessories", "Accessories", "Watch"},
			{"makeup", "Makeup", "Brush"},
			{"skincare", "Skincare", "Sparkles"},
			{"other_shopping", "Other shopping", "ShoppingBag"},
		},
	},
	{
		ID: "social", Name: "Social", Icon: "Users", Color: "#4a6fa5",
		Subcategories: []SubCategory{
			{"gift_money", "Gift money", "Envelopes"},
			{"red_envelope_exp", "Red envelopes", "Mail"},
			{"treating", "Treating", "UserPlus"},
			{"donation", "Donations", "HeartHandshake"},
			{"other_social", "Other social", "Users"},
		},
	},
	{
		ID: "finance", Name: "Finance & other", Icon: "MoreHorizontal", Color: "#ABB2BF",
		Subcategories: []SubCategory{
			{"investment_exp", "Investments", "TrendingUp"},
			{"trading_fee", "Trading fees", "Receipt"},
			{"bank_fee", "Bank fees", "CreditCard"},
			{"tax", "Taxes", "Landmark"},
			{"fine", "Fines", "AlertTriangle"},
			{"other_finance", "Other finance", "Coins"},
			{"misc", "Miscellaneous", "HelpCircle"},
		},
	},
}

var income = []Category{
	{ID: "salary", Name: "Salary", Icon: "Banknote", Color: "#F472B6"},
	{ID: "bonus", Name: "Bonus", Icon: "Trophy", Color: "#FB7185"},
	{ID: "overtime", Name: "Overtime", Icon: "Timer", Color: "#FDA4AF"},
	{ID: "side_hustle", Name: "Side income", Icon: "Laptop", Color: "#E879F9"},
	{ID: "investment", Name: "Investment income", Icon: "TrendingUp", Color: "#C084FC"},
	{ID: "rent_income", Name: "Rental income", Icon: "Home", Color: "#A78BFA"},
	{ID: "subsidy", Name: "Allowances", Icon: "HeartHandshake", Color: "#818CF8"},
	{ID: "tax_refund", Name: "Tax refund", Icon: "FileDigit", Color: "#6366F1"},
	{ID: "red_envelope", Name: "Red envelopes", Icon: "Mail", Color: "#F43F5E"},
	{ID: "other_income", Name: "Other income", Icon: "MoreHorizontal", Color: "#94A3B8"},
}
