package seed

// schemaDDL creates the demo tables. Column types stay in the common
// subset the three supported backends agree on.
var schemaDDL = []string{
	`CREATE TABLE lead (
		id VARCHAR(18) PRIMARY KEY,
		first_name VARCHAR(80),
		last_name VARCHAR(80),
		company VARCHAR(255),
		status VARCHAR(40),
		email VARCHAR(128),
		annual_revenue DOUBLE,
		number_of_employees INTEGER,
		is_converted BOOLEAN,
		created_date TIMESTAMP
	)`,
	`CREATE TABLE account (
		id VARCHAR(18) PRIMARY KEY,
		name VARCHAR(255),
		industry VARCHAR(80),
		annual_revenue DOUBLE,
		number_of_employees INTEGER,
		created_date TIMESTAMP
	)`,
	`CREATE TABLE contact (
		id VARCHAR(18) PRIMARY KEY,
		first_name VARCHAR(80),
		last_name VARCHAR(80),
		email VARCHAR(128),
		account_id VARCHAR(18),
		birthdate DATE,
		created_date TIMESTAMP
	)`,
}

// seedRows populates the demo dataset. Ids follow the CRM convention of an
// 18-character key prefixed by the object's three-character code.
var seedRows = []string{
	`INSERT INTO lead (id, first_name, last_name, company, status, email, annual_revenue, number_of_employees, is_converted, created_date) VALUES
		('00Q5f000001ZaApEAK', 'Ada', 'Lovelace', 'Analytical Engines Ltd', 'Open', 'ada@analytical.example', 1250000.0, 42, FALSE, '2024-01-15 09:30:00'),
		('00Q5f000001ZaAqEAK', 'Grace', 'Hopper', 'Compiler Corp', 'Working', 'grace@compiler.example', 3400000.5, 180, FALSE, '2024-02-20 14:05:00'),
		('00Q5f000001ZaArEAK', 'Alan', 'Turing', 'Enigma Systems', 'Qualified', 'alan@enigma.example', 980000.0, 12, TRUE, '2024-03-01 08:00:00'),
		('00Q5f000001ZaAsEAK', 'Katherine', 'Johnson', 'Orbital Mechanics Inc', 'Open', 'katherine@orbital.example', 5600000.0, 320, FALSE, '2024-03-18 16:45:00'),
		('00Q5f000001ZaAtEAK', 'Claude', 'Shannon', 'Channel Capacity LLC', 'Closed', 'claude@channel.example', NULL, 7, TRUE, '2024-04-02 11:20:00')`,
	`INSERT INTO account (id, name, industry, annual_revenue, number_of_employees, created_date) VALUES
		('0015f000002XbBuEAK', 'Acme Corporation', 'Manufacturing', 12000000.0, 540, '2023-11-05 10:00:00'),
		('0015f000002XbBvEAK', 'Globex Industries', 'Technology', 48000000.0, 2100, '2023-12-12 13:30:00'),
		('0015f000002XbBwEAK', 'Initech', 'Software', 7500000.0, 120, '2024-01-22 09:15:00')`,
	`INSERT INTO contact (id, first_name, last_name, email, account_id, birthdate, created_date) VALUES
		('0035f000003YcCxEAK', 'Bob', 'Slydell', 'bob@initech.example', '0015f000002XbBwEAK', '1961-08-14', '2024-01-25 10:10:00'),
		('0035f000003YcCyEAK', 'Hank', 'Scorpio', 'hank@globex.example', '0015f000002XbBvEAK', '1958-02-03', '2024-02-01 12:00:00'),
		('0035f000003YcCzEAK', 'Wile', 'Coyote', 'wile@acme.example', '0015f000002XbBuEAK', NULL, '2024-02-10 15:40:00')`,
}
