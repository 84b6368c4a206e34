package destinations

import "takemeto75/trip"

// Catalog is the fixed set of destinations searched for good weather.
var Catalog = []trip.Destination{
	{City: "San Juan", Country: "Puerto Rico", Airport: "SJU", Lat: 18.4655, Lon: -66.1057, Region: "caribbean", CostIndex: 3,
		Blurb: "Old San Juan's colorful streets, world-class beaches, and no passport needed. The piña colada was invented here."},
	{City: "Cancun", Country: "Mexico", Airport: "CUN", Lat: 21.1619, Lon: -86.8515, Region: "caribbean", CostIndex: 2,
		Blurb: "Turquoise Caribbean waters, ancient Mayan ruins, and tacos al pastor at 2am. The Hotel Zone delivers."},
	{City: "Nassau", Country: "Bahamas", Airport: "NAS", Lat: 25.0343, Lon: -77.3963, Region: "caribbean", CostIndex: 4,
		Blurb: "Pink sand beaches, swimming pigs, and that famous Bahamas blue. Just a short hop from Florida."},
	{City: "Punta Cana", Country: "Dominican Republic", Airport: "PUJ", Lat: 18.5601, Lon: -68.3725, Region: "caribbean", CostIndex: 2,
		Blurb: "All-inclusive paradise with 30 miles of white sand. Golf, spa, repeat."},
	{City: "Aruba", Country: "Aruba", Airport: "AUA", Lat: 12.5211, Lon: -70.0167, Region: "caribbean", CostIndex: 3,
		Blurb: "One Happy Island. Consistent trade winds, zero hurricanes, and flamingos on the beach."},
	{City: "San Jose", Country: "Costa Rica", Airport: "SJO", Lat: 9.9281, Lon: -84.0907, Region: "central_america", CostIndex: 2,
		Blurb: "Gateway to cloud forests, volcanoes, and the pura vida lifestyle. Coffee tours mandatory."},
	{City: "Panama City", Country: "Panama", Airport: "PTY", Lat: 9.0820, Lon: -79.3835, Region: "central_america", CostIndex: 2,
		Blurb: "Watch ships transit the Canal, explore Casco Viejo, then escape to San Blas islands."},
	{City: "Belize City", Country: "Belize", Airport: "BZE", Lat: 17.5392, Lon: -88.3089, Region: "central_america", CostIndex: 2,
		Blurb: "The Great Blue Hole awaits. Snorkel the second-largest barrier reef, explore Mayan temples."},
	{City: "San Diego", Country: "USA", Airport: "SAN", Lat: 32.7157, Lon: -117.1611, Region: "us_west", CostIndex: 3,
		Blurb: "Perfect weather, craft beer capital, and fish tacos that ruin you for anywhere else."},
	{City: "Los Angeles", Country: "USA", Airport: "LAX", Lat: 34.0522, Lon: -118.2437, Region: "us_west", CostIndex: 4,
		Blurb: "Beach cities, hiking trails, and the best food scene in America. Skip Hollywood."},
	{City: "Phoenix", Country: "USA", Airport: "PHX", Lat: 33.4484, Lon: -112.0740, Region: "us_southwest", CostIndex: 2,
		Blurb: "Desert sunsets, world-class spas, and that dry heat everyone talks about."},
	{City: "Scottsdale", Country: "USA", Airport: "PHX", Lat: 33.4942, Lon: -111.9261, Region: "us_southwest", CostIndex: 4,
		Blurb: "Luxury desert vibes. Golf, spa treatments, and restaurant patios with mountain views."},
	{City: "Miami", Country: "USA", Airport: "MIA", Lat: 25.7617, Lon: -80.1918, Region: "us_southeast", CostIndex: 4,
		Blurb: "Art Deco, Cuban coffee, and beach clubs. The energy is unmatched."},
	{City: "Key West", Country: "USA", Airport: "EYW", Lat: 24.5551, Lon: -81.7800, Region: "us_southeast", CostIndex: 4,
		Blurb: "End of the road. Hemingway bars, sunset at Mallory Square, and six-toed cats."},
	{City: "Tampa", Country: "USA", Airport: "TPA", Lat: 27.9506, Lon: -82.4572, Region: "us_southeast", CostIndex: 2,
		Blurb: "Underrated gem. Ybor City cigars, craft breweries, and Clearwater Beach nearby."},
	{City: "Savannah", Country: "USA", Airport: "SAV", Lat: 32.0809, Lon: -81.0912, Region: "us_southeast", CostIndex: 2,
		Blurb: "Spanish moss, historic squares, and the best fried chicken you've ever had."},
	{City: "Charleston", Country: "USA", Airport: "CHS", Lat: 32.7765, Lon: -79.9311, Region: "us_southeast", CostIndex: 3,
		Blurb: "Southern charm perfected. Cobblestone streets, she-crab soup, and rooftop bars."},
	{City: "Austin", Country: "USA", Airport: "AUS", Lat: 30.2672, Lon: -97.7431, Region: "us_south", CostIndex: 3,
		Blurb: "Live music, breakfast tacos, and Barton Springs. Keep it weird."},
	{City: "San Antonio", Country: "USA", Airport: "SAT", Lat: 29.4241, Lon: -98.4936, Region: "us_south", CostIndex: 2,
		Blurb: "The Riverwalk, historic missions, and Tex-Mex that slaps."},
	{City: "Honolulu", Country: "USA", Airport: "HNL", Lat: 21.3069, Lon: -157.8583, Region: "hawaii", CostIndex: 4,
		Blurb: "Waikiki sunsets, Diamond Head hikes, and poke bowls for days."},
	{City: "Maui", Country: "USA", Airport: "OGG", Lat: 20.7984, Lon: -156.3319, Region: "hawaii", CostIndex: 5,
		Blurb: "Road to Hana, Haleakala sunrise, and beaches that look photoshopped."},
	{City: "Medellin", Country: "Colombia", Airport: "MDE", Lat: 6.2476, Lon: -75.5658, Region: "south_america", CostIndex: 1,
		Blurb: "City of eternal spring. Transformed from notorious to must-visit. The metro is art."},
	{City: "Cartagena", Country: "Colombia", Airport: "CTG", Lat: 10.3910, Lon: -75.4794, Region: "south_america", CostIndex: 2,
		Blurb: "Walled city romance. Colonial colors, ceviche, and Caribbean vibes."},
	{City: "Lima", Country: "Peru", Airport: "LIM", Lat: -12.0464, Lon: -77.0428, Region: "south_america", CostIndex: 2,
		Blurb: "The food capital of South America. Ceviche, pisco sours, and Miraflores cliffs."},
	{City: "Buenos Aires", Country: "Argentina", Airport: "EZE", Lat: -34.6037, Lon: -58.3816, Region: "south_america", CostIndex: 1,
		Blurb: "Tango, steak, and Malbec. Paris of South America with better food."},
	{City: "Santiago", Country: "Chile", Airport: "SCL", Lat: -33.4489, Lon: -70.6693, Region: "south_america", CostIndex: 2,
		Blurb: "Wine country doorstep, Andes views, and a food scene on the rise."},
	{City: "Lisbon", Country: "Portugal", Airport: "LIS", Lat: 38.7223, Lon: -9.1393, Region: "europe", CostIndex: 2,
		Blurb: "Pastel de nata, tram 28, and rooftop bars with river views. Affordable and unforgettable."},
	{City: "Barcelona", Country: "Spain", Airport: "BCN", Lat: 41.3851, Lon: 2.1734, Region: "europe", CostIndex: 3,
		Blurb: "Gaudí's masterpieces, beach, and tapas until midnight. La Rambla is a skip."},
	{City: "Seville", Country: "Spain", Airport: "SVQ", Lat: 37.3891, Lon: -5.9845, Region: "europe", CostIndex: 2,
		Blurb: "Flamenco, tapas crawls, and the most beautiful plaza in Spain."},
	{City: "Rome", Country: "Italy", Airport: "FCO", Lat: 41.9028, Lon: 12.4964, Region: "europe", CostIndex: 3,
		Blurb: "Ancient ruins, perfect pasta, and gelato research. Every corner is a postcard."},
	{City: "Athens", Country: "Greece", Airport: "ATH", Lat: 37.9838, Lon: 23.7275, Region: "europe", CostIndex: 2,
		Blurb: "Acropolis views, mezze spreads, and island-hopping potential."},
	{City: "Dubrovnik", Country: "Croatia", Airport: "DBV", Lat: 42.6507, Lon: 18.0944, Region: "europe", CostIndex: 3,
		Blurb: "King's Landing IRL. Walk the walls, swim in the Adriatic, day trip to Montenegro."},
	{City: "Tokyo", Country: "Japan", Airport: "NRT", Lat: 35.6762, Lon: 139.6503, Region: "asia", CostIndex: 4,
		Blurb: "The future and tradition collide. Ramen at 3am, temples at dawn."},
	{City: "Seoul", Country: "South Korea", Airport: "ICN", Lat: 37.5665, Lon: 126.9780, Region: "asia", CostIndex: 3,
		Blurb: "K-beauty, Korean BBQ, and palaces. The nightlife is legendary."},
	{City: "Taipei", Country: "Taiwan", Airport: "TPE", Lat: 25.0330, Lon: 121.5654, Region: "asia", CostIndex: 2,
		Blurb: "Night markets, bubble tea origin story, and the best dumplings outside Shanghai."},
	{City: "Singapore", Country: "Singapore", Airport: "SIN", Lat: 1.3521, Lon: 103.8198, Region: "asia", CostIndex: 4,
		Blurb: "Clean, efficient, and the hawker centers are UNESCO-worthy."},
	{City: "Bali", Country: "Indonesia", Airport: "DPS", Lat: -8.3405, Lon: 115.0920, Region: "asia", CostIndex: 1,
		Blurb: "Rice terraces, surf breaks, and $5 massages. Digital nomad central."},
	{City: "Bangkok", Country: "Thailand", Airport: "BKK", Lat: 13.7563, Lon: 100.5018, Region: "asia", CostIndex: 1,
		Blurb: "Street food heaven, rooftop bars, and temples that deliver."},
	{City: "Sydney", Country: "Australia", Airport: "SYD", Lat: -33.8688, Lon: 151.2093, Region: "oceania", CostIndex: 4,
		Blurb: "Opera House, Bondi Beach, and flat whites that changed coffee forever."},
	{City: "Dubai", Country: "UAE", Airport: "DXB", Lat: 25.2048, Lon: 55.2708, Region: "middle_east", CostIndex: 4,
		Blurb: "Excess perfected. Desert safaris, indoor skiing, and brunch culture."},
	{City: "Tel Aviv", Country: "Israel", Airport: "TLV", Lat: 32.0853, Lon: 34.7818, Region: "middle_east", CostIndex: 3,
		Blurb: "Mediterranean beaches, incredible food scene, and Bauhaus architecture."},
	{City: "Marrakech", Country: "Morocco", Airport: "RAK", Lat: 31.6295, Lon: -7.9811, Region: "africa", CostIndex: 2,
		Blurb: "Souks, riads, and tagine. The sensory overload you need."},
	{City: "Cape Town", Country: "South Africa", Airport: "CPT", Lat: -33.9249, Lon: 18.4241, Region: "africa", CostIndex: 2,
		Blurb: "Table Mountain, wine country, and penguins. Actually penguins."},
}

// Airports are the domestic departure airports, in lookup order.
var Airports = []trip.Airport{
	{Code: "JFK", Name: "New York JFK", City: "New York", Lat: 40.6413, Lon: -73.7781},
	{Code: "LAX", Name: "Los Angeles", City: "Los Angeles", Lat: 33.9416, Lon: -118.4085},
	{Code: "ORD", Name: "Chicago O'Hare", City: "Chicago", Lat: 41.9742, Lon: -87.9073},
	{Code: "DFW", Name: "Dallas/Fort Worth", City: "Dallas", Lat: 32.8998, Lon: -97.0403},
	{Code: "DEN", Name: "Denver", City: "Denver", Lat: 39.8561, Lon: -104.6737},
	{Code: "SFO", Name: "San Francisco", City: "San Francisco", Lat: 37.6213, Lon: -122.3790},
	{Code: "SEA", Name: "Seattle-Tacoma", City: "Seattle", Lat: 47.4502, Lon: -122.3088},
	{Code: "ATL", Name: "Atlanta", City: "Atlanta", Lat: 33.6407, Lon: -84.4277},
	{Code: "BOS", Name: "Boston Logan", City: "Boston", Lat: 42.3656, Lon: -71.0096},
	{Code: "MIA", Name: "Miami", City: "Miami", Lat: 25.7959, Lon: -80.2870},
	{Code: "PHX", Name: "Phoenix", City: "Phoenix", Lat: 33.4373, Lon: -112.0078},
	{Code: "IAH", Name: "Houston", City: "Houston", Lat: 29.9902, Lon: -95.3368},
	{Code: "MSP", Name: "Minneapolis", City: "Minneapolis", Lat: 44.8848, Lon: -93.2223},
	{Code: "DTW", Name: "Detroit", City: "Detroit", Lat: 42.2162, Lon: -83.3554},
	{Code: "PHL", Name: "Philadelphia", City: "Philadelphia", Lat: 39.8729, Lon: -75.2437},
	{Code: "LGA", Name: "New York LaGuardia", City: "New York", Lat: 40.7769, Lon: -73.8740},
	{Code: "EWR", Name: "Newark", City: "Newark", Lat: 40.6895, Lon: -74.1745},
	{Code: "SAN", Name: "San Diego", City: "San Diego", Lat: 32.7338, Lon: -117.1933},
	{Code: "AUS", Name: "Austin", City: "Austin", Lat: 30.1975, Lon: -97.6664},
	{Code: "PDX", Name: "Portland", City: "Portland", Lat: 45.5898, Lon: -122.5951},
}
